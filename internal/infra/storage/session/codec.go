package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// record форма хранения сессии в redis и memory
type record struct {
	ID        uuid.UUID             `json:"id"`
	State     domain.SelectionState `json:"state"`
	Version   int64                 `json:"version"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

func encodeState(state domain.SelectionState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

func decodeState(data []byte) (domain.SelectionState, error) {
	var state domain.SelectionState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.SelectionState{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return state, nil
}

func encodeRecord(s *domain.Session) ([]byte, error) {
	data, err := json.Marshal(record{
		ID:        s.ID,
		State:     s.State,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*domain.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &domain.Session{
		ID:        rec.ID,
		State:     rec.State,
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// cloneSession возвращает глубокую копию сессии
func cloneSession(s *domain.Session) *domain.Session {
	out := *s
	out.State = s.State.Clone()
	return &out
}
