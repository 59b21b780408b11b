package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/psqlbuilder"
)

const (
	tableName = "booking_sessions"

	// uniqueViolation код ошибки postgres для нарушения уникальности
	uniqueViolation = "23505"
)

var sessionColumns = []string{
	"id",
	"state",
	"version",
	"created_at",
	"updated_at",
	"expires_at",
}

// Repository хранит сессии в postgres.
// Состояние мастера лежит в JSONB, конкурентные записи отсекаются по колонке version.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую сессию с версией 1
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	state, err := encodeState(s.State)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"step",
			"state",
			"version",
			"created_at",
			"updated_at",
			"expires_at",
		).
		Values(
			s.ID,
			string(s.State.Step),
			state,
			1,
			s.CreatedAt,
			s.UpdatedAt,
			s.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrSessionExists
		}
		return nil, fmt.Errorf("%w: Create - exec insert: %v", ErrExecQuery, err)
	}

	created := cloneSession(s)
	created.Version = 1
	return created, nil
}

// Get получает сессию по ID
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s     domain.Session
		state []byte
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&state,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: Get - scan session id=%s: %v", ErrScanRow, id, err)
	}

	s.State, err = decodeState(state)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Update сохраняет сессию, если в базе та же версия, что была прочитана.
// Возвращает сессию с увеличенной версией.
func (r *Repository) Update(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	state, err := encodeState(s.State)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("step", string(s.State.Step)).
		Set("state", state).
		Set("version", s.Version+1).
		Set("updated_at", s.UpdatedAt).
		Set("expires_at", s.ExpiresAt).
		Where(squirrel.Eq{"id": s.ID, "version": s.Version}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - exec update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем отсутствие сессии и устаревшую версию
		exists, err := r.exists(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrSessionNotFound
		}
		return nil, ErrVersionConflict
	}

	updated := cloneSession(s)
	updated.Version = s.Version + 1
	return updated, nil
}

// DeleteExpired удаляет сессии, истекшие к моменту now
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - exec delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}
	return deleted, nil
}

func (r *Repository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}
