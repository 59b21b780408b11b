package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// DefaultKeyPrefix префикс ключей сессий в redis
const DefaultKeyPrefix = "studio:session:"

// RedisRepository хранит сессии в redis.
// Истечение сессии делегировано TTL ключа; версия проверяется через WATCH.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRepository создает хранилище; пустой prefix заменяется на DefaultKeyPrefix
func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRepository{
		client: client,
		prefix: prefix,
	}
}

// Create сохраняет новую сессию с версией 1
func (r *RedisRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	created := cloneSession(s)
	created.Version = 1

	data, err := encodeRecord(created)
	if err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, r.key(s.ID), data, ttlUntil(s.ExpiresAt)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - setnx: %v", ErrExecQuery, err)
	}
	if !ok {
		return nil, ErrSessionExists
	}

	return created, nil
}

// Get получает сессию по ID
func (r *RedisRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: Get - get session id=%s: %v", ErrExecQuery, id, err)
	}
	return decodeRecord(data)
}

// Update сохраняет сессию, если версия в redis совпадает с прочитанной
func (r *RedisRepository) Update(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	key := r.key(s.ID)

	updated := cloneSession(s)
	updated.Version = s.Version + 1

	data, err := encodeRecord(updated)
	if err != nil {
		return nil, err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: Update - get session id=%s: %v", ErrExecQuery, s.ID, err)
		}

		stored, err := decodeRecord(raw)
		if err != nil {
			return err
		}
		if stored.Version != s.Version {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttlUntil(s.ExpiresAt))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, redis.TxFailedErr):
		return nil, ErrVersionConflict
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrVersionConflict), errors.Is(err, ErrDecode):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: Update - transaction: %v", ErrExecQuery, err)
	}
}

// DeleteExpired ничего не делает: redis удаляет сессии по TTL
func (r *RedisRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisRepository) key(id uuid.UUID) string {
	return r.prefix + id.String()
}

// ttlUntil переводит момент истечения в TTL ключа; 0 означает без истечения
func ttlUntil(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	ttl := time.Until(expiresAt)
	if ttl < time.Millisecond {
		return time.Millisecond
	}
	return ttl
}
