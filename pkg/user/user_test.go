package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/internal/util"
	"github.com/talitamaia0609-debug/siter/pkg/config"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
	"github.com/talitamaia0609-debug/siter/pkg/token"
	"github.com/talitamaia0609-debug/siter/pkg/user"
	"golang.org/x/oauth2"
)

// fakeDiscord answers the token exchange and profile requests of the sign in flow.
func fakeDiscord(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "valid-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "access", "refresh_token": "refresh", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "9001", "username": "ShadowHunter", "discriminator": "0", "email": "shadow@guild.gg", "avatar": "abc"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setup(t *testing.T, loginEnabled bool) (*gin.Engine, *user.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userService := user.NewService(store.NewMemory())
	tokenService := token.NewService(slog.Default(), token.NewMemoryRepository(), "secret", time.Hour)
	authentication := middleware.NewAuthentication(slog.Default(), tokenService, userService)

	h := user.NewHandler(userService, tokenService, nil, "/", false)
	if loginEnabled {
		discord := fakeDiscord(t)
		provider := user.NewDiscordProvider(config.Discord{ClientID: "client", ClientSecret: "secret", CallbackURL: "http://localhost/auth/discord/callback"}).
			WithEndpoint(oauth2.Endpoint{
				AuthURL:   discord.URL + "/oauth2/authorize",
				TokenURL:  discord.URL + "/api/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			}, discord.URL+"/api/users/@me")
		h = user.NewHandler(userService, tokenService, provider, "/", false)
	}

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	user.Routes(r, authentication.TokenAuthentication, h)
	return r, userService
}

func cookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "cookie not set", "cookie %q", name)
	return nil
}

func signIn(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/discord", nil))
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize", location.Path)
	assert.Equal(t, "client", location.Query().Get("client_id"))
	assert.Equal(t, "identify email", location.Query().Get("scope"))
	state := location.Query().Get("state")
	stateCookie := cookie(t, w, util.OAuthStateCookieName)
	require.Equal(t, state, stateCookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=valid-code&state="+url.QueryEscape(state), nil)
	req.AddCookie(stateCookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	session := cookie(t, w, util.SessionCookieName)
	assert.True(t, session.HttpOnly)
	return session
}

func me(r *gin.Engine, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignIn(t *testing.T) {
	r, userService := setup(t, true)

	session := signIn(t, r)

	w := me(r, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "9001", body["discordId"])
	assert.Equal(t, "ShadowHunter", body["username"])
	assert.Equal(t, "shadow@guild.gg", body["email"])
	assert.NotContains(t, body, "accessToken")
	assert.NotContains(t, body, "refreshToken")

	stored, err := userService.FindByDiscordID(context.Background(), "9001")
	require.NoError(t, err)
	require.NotNil(t, stored.AccessToken)
	assert.Equal(t, "access", *stored.AccessToken)

	t.Run("SignInAgainKeepsUser", func(t *testing.T) {
		signIn(t, r)

		again, err := userService.FindByDiscordID(context.Background(), "9001")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, again.ID)
	})

	t.Run("SignOut", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(session)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, http.StatusUnauthorized, me(r, session).Code)
	})
}

func TestSignIn_Failures(t *testing.T) {
	t.Run("NoSession", func(t *testing.T) {
		r, _ := setup(t, true)

		assert.Equal(t, http.StatusUnauthorized, me(r, nil).Code)
	})

	t.Run("StateMismatch", func(t *testing.T) {
		r, _ := setup(t, true)
		req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=valid-code&state=forged", nil)
		req.AddCookie(&http.Cookie{Name: util.OAuthStateCookieName, Value: "expected"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidCode", func(t *testing.T) {
		r, _ := setup(t, true)
		req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=invalid&state=s", nil)
		req.AddCookie(&http.Cookie{Name: util.OAuthStateCookieName, Value: "s"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingCode", func(t *testing.T) {
		r, _ := setup(t, true)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/discord/callback?state=s", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		r, _ := setup(t, false)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/discord", nil))

		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	})
}

func TestService_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(store.NewMemory())

	created, err := service.CreateOrUpdate(ctx, &model.User{DiscordID: "9001", Username: "old"})
	require.NoError(t, err)
	updated, err := service.CreateOrUpdate(ctx, &model.User{DiscordID: "9001", Username: "new"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	found, err := service.FindById(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Username)
}
