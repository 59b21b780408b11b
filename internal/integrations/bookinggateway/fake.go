package bookinggateway

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// FakeGateway подтверждает любой черновик без внешнего вызова.
// Включается booking_gateway.allow_fake для локальной разработки.
type FakeGateway struct {
	log Logger
}

// NewFakeGateway создает фейковый шлюз
func NewFakeGateway(log Logger) *FakeGateway {
	return &FakeGateway{log: log}
}

// Submit возвращает подтверждение "fake-<draft id>"
func (g *FakeGateway) Submit(ctx context.Context, draft domain.BookingDraft) (*domain.SubmissionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.log.Warn("Fake gateway confirmed draft id=%s total=%d", draft.ID, draft.TotalCents)
	return &domain.SubmissionResult{
		Success:        true,
		ConfirmationID: "fake-" + draft.ID.String(),
	}, nil
}
