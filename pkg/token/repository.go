package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
)

const sessionKeyPrefix = "session:"

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(client *redis.Client) *redisRepository {
	return &redisRepository{client: client}
}

type redisRepository struct {
	client *redis.Client
}

func (r redisRepository) SetSession(ctx context.Context, tokenId string, userId string, expiresIn time.Duration) error {
	if err := r.client.WithContext(ctx).Set(sessionKeyPrefix+tokenId, userId, expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to store session %q: %v", tokenId, err)
	}
	return nil
}

func (r redisRepository) GetSession(ctx context.Context, tokenId string) (string, error) {
	userId, err := r.client.WithContext(ctx).Get(sessionKeyPrefix + tokenId).Result()
	if errors.Is(err, redis.Nil) {
		return "", errdef.NewNotFound("failed to find session %q", tokenId)
	}
	if err != nil {
		return "", fmt.Errorf("failed to find session %q: %v", tokenId, err)
	}
	return userId, nil
}

func (r redisRepository) DeleteSession(ctx context.Context, tokenId string) error {
	if err := r.client.WithContext(ctx).Del(sessionKeyPrefix + tokenId).Err(); err != nil {
		return fmt.Errorf("failed to delete session %q: %v", tokenId, err)
	}
	return nil
}

// NewMemoryRepository creates a session registry which lives as long as the process. It's used if
// no redis is configured.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func NewMemoryRepository() *memoryRepository {
	return &memoryRepository{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

type memorySession struct {
	userId    string
	expiresAt time.Time
}

type memoryRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func (r *memoryRepository) SetSession(_ context.Context, tokenId string, userId string, expiresIn time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, session := range r.sessions {
		if !session.expiresAt.After(now) {
			delete(r.sessions, id)
		}
	}
	r.sessions[tokenId] = memorySession{userId: userId, expiresAt: now.Add(expiresIn)}
	return nil
}

func (r *memoryRepository) GetSession(_ context.Context, tokenId string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[tokenId]
	if !ok || !session.expiresAt.After(r.now()) {
		return "", errdef.NewNotFound("failed to find session %q", tokenId)
	}
	return session.userId, nil
}

func (r *memoryRepository) DeleteSession(_ context.Context, tokenId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, tokenId)
	return nil
}
