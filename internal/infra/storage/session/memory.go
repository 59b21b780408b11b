package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// MemoryRepository хранит сессии в памяти процесса.
// Подходит для одного инстанса и тестов.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[uuid.UUID]*domain.Session),
	}
}

// Create сохраняет новую сессию с версией 1
func (r *MemoryRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return nil, ErrSessionExists
	}

	stored := cloneSession(s)
	stored.Version = 1
	r.sessions[s.ID] = stored

	return cloneSession(stored), nil
}

// Get возвращает копию сессии
func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(stored), nil
}

// Update заменяет сессию, если версия совпадает с сохраненной
func (r *MemoryRepository) Update(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[s.ID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if stored.Version != s.Version {
		return nil, ErrVersionConflict
	}

	next := cloneSession(s)
	next.Version = s.Version + 1
	next.CreatedAt = stored.CreatedAt
	r.sessions[s.ID] = next

	return cloneSession(next), nil
}

// DeleteExpired удаляет сессии, истекшие к моменту now
func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, s := range r.sessions {
		if s.IsExpired(now) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
