package permission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/permission"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

type mockRoleChecker struct{ mock.Mock }

func (m *mockRoleChecker) HasRole(ctx context.Context, principalID, roleID string) (bool, error) {
	called := m.Called(ctx, principalID, roleID)
	return called.Bool(0), called.Error(1)
}

func TestService_CanManage(t *testing.T) {
	ctx := context.Background()

	t.Run("NotConfigured", func(t *testing.T) {
		service := permission.NewService(store.NewMemory())
		roles := &mockRoleChecker{}

		err := service.CanManage(ctx, "guild", "1001", roles)

		assert.True(t, errdef.IsNotConfigured(err))
		assert.False(t, errdef.IsForbidden(err))
		roles.AssertNotCalled(t, "HasRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RoleHeld", func(t *testing.T) {
		service := permission.NewService(store.NewMemory())
		_, err := service.SetManagerRole(ctx, "guild", "role")
		require.NoError(t, err)
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, "1001", "role").Return(true, nil)

		err = service.CanManage(ctx, "guild", "1001", roles)

		require.NoError(t, err)
		roles.AssertExpectations(t)
	})

	t.Run("RoleNotHeld", func(t *testing.T) {
		service := permission.NewService(store.NewMemory())
		_, err := service.SetManagerRole(ctx, "guild", "role")
		require.NoError(t, err)
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, "1002", "role").Return(false, nil)

		err = service.CanManage(ctx, "guild", "1002", roles)

		assert.True(t, errdef.IsForbidden(err))
		roles.AssertExpectations(t)
	})

	t.Run("OtherGuild", func(t *testing.T) {
		service := permission.NewService(store.NewMemory())
		_, err := service.SetManagerRole(ctx, "guild", "role")
		require.NoError(t, err)

		err = service.CanManage(ctx, "other-guild", "1001", &mockRoleChecker{})

		assert.True(t, errdef.IsNotConfigured(err))
	})

	t.Run("RoleCheckerFails", func(t *testing.T) {
		service := permission.NewService(store.NewMemory())
		_, err := service.SetManagerRole(ctx, "guild", "role")
		require.NoError(t, err)
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, "1001", "role").Return(false, errors.New("gateway down"))

		err = service.CanManage(ctx, "guild", "1001", roles)

		require.ErrorContains(t, err, "gateway down")
		assert.False(t, errdef.IsForbidden(err))
	})
}

func TestService_SetManagerRole(t *testing.T) {
	ctx := context.Background()
	service := permission.NewService(store.NewMemory())

	first, err := service.SetManagerRole(ctx, "guild", "role")
	require.NoError(t, err)
	second, err := service.SetManagerRole(ctx, "guild", "other-role")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	config, err := service.FindConfig(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, "other-role", config.EventManagerRoleID)

	_, err = service.SetManagerRole(ctx, "guild", "")
	assert.True(t, errdef.IsBadRequest(err))
}
