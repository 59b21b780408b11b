package selection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/session"
	catalogService "github.com/m04kA/SMC-StudioBooking/internal/service/catalog"
	listSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/list_slots"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

var (
	testNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

// fakeSlots отдает все слоты окна свободными по часовой цене услуги
type fakeSlots struct {
	mu       sync.Mutex
	prices   map[int64]int64
	requests []listSlots.Request
	fail     func(req *listSlots.Request) error
}

func (f *fakeSlots) Execute(_ context.Context, req *listSlots.Request) (*listSlots.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, *req)
	f.mu.Unlock()

	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return nil, err
		}
	}

	labels := domain.DefaultRules().Window.Labels()
	slots := make([]domain.TimeSlot, len(labels))
	for i, label := range labels {
		slots[i] = domain.TimeSlot{Time: label, Available: label != "13:00", PriceCents: f.prices[req.ServiceID]}
	}
	return &listSlots.Response{Date: domain.DateOnly(req.Date), Slots: slots}, nil
}

func (f *fakeSlots) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type transitionRecord struct {
	op  string
	err error
}

type fakeMetrics struct {
	mu      sync.Mutex
	records []transitionRecord
}

func (m *fakeMetrics) ObserveTransition(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, transitionRecord{op: op, err: err})
}

// conflictingRepo отклоняет каждую запись как конкурентную
type conflictingRepo struct {
	*sessionRepo.MemoryRepository
}

func (r conflictingRepo) Update(_ context.Context, _ *domain.Session) (*domain.Session, error) {
	return nil, sessionRepo.ErrVersionConflict
}

type testEnv struct {
	svc     *Service
	repo    *sessionRepo.MemoryRepository
	slots   *fakeSlots
	metrics *fakeMetrics
	clock   *fixedTime
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	services, err := catalogService.NewService([]domain.Service{
		{ID: 1, Name: "Recording", HourlyPriceCents: 7500},
		{ID: 2, Name: "Mixing", HourlyPriceCents: 6000, FullDayPriceCents: ptr.Ptr(int64(40000))},
	}, logger.NewNop())
	require.NoError(t, err)

	env := &testEnv{
		repo:    sessionRepo.NewMemoryRepository(),
		slots:   &fakeSlots{prices: map[int64]int64{1: 7500, 2: 6000}},
		metrics: &fakeMetrics{},
		clock:   &fixedTime{now: testNow},
	}
	env.svc = NewService(
		env.repo,
		services,
		env.slots,
		domain.NewBookingFlow(domain.DefaultRules()),
		Config{SessionTTL: time.Hour},
		env.metrics,
		logger.NewNop(),
	).WithTimeProvider(env.clock)

	return env
}

// onDateStep создает сессию с выбранной услугой и датой
func (e *testEnv) onDateStep(t *testing.T, serviceID int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	started, err := e.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	_, err = e.svc.SelectService(ctx, id, serviceID)
	require.NoError(t, err)
	_, err = e.svc.Advance(ctx, id)
	require.NoError(t, err)
	_, err = e.svc.SelectDate(ctx, id, testDate)
	require.NoError(t, err)
	return id
}

func TestService_Start(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StepSelectingService), resp.Step)
	assert.Equal(t, string(domain.ModeSingle), resp.Mode)
	assert.Nil(t, resp.Date)
	assert.Nil(t, resp.Service)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, int64(1), resp.Version)
	assert.Equal(t, testNow.Add(time.Hour), resp.ExpiresAt)
	assert.Equal(t, domain.DefaultMaxMultiSlots, resp.MaxMultiSlots)
}

func TestService_MultiSlotWizard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	resp, err := env.svc.SetMode(ctx, id, domain.ModeMulti)
	require.NoError(t, err)
	assert.Equal(t, "multi", resp.Mode)

	for _, slot := range []string{"11:00", "09:00", "10:00"} {
		resp, err = env.svc.ToggleSlot(ctx, id, slot)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, resp.Slots)
	assert.Equal(t, int64(22500), resp.TotalCents)
	assert.Equal(t, "225.00", resp.Total)
	require.NotNil(t, resp.Date)
	assert.Equal(t, "2025-06-03", *resp.Date)

	selected := 0
	for _, slot := range resp.Catalog {
		if slot.Selected {
			selected++
		}
	}
	assert.Equal(t, 3, selected)

	resp, err = env.svc.Advance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StepEnteringCustomerDetails), resp.Step)

	got, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestService_FullDayPrice(t *testing.T) {
	env := newTestEnv(t)
	id := env.onDateStep(t, 2)

	resp, err := env.svc.SetMode(context.Background(), id, domain.ModeFullDay)
	require.NoError(t, err)

	assert.Len(t, resp.Slots, domain.DefaultRules().Window.Hours())
	assert.Equal(t, int64(40000), resp.TotalCents)
	require.NotNil(t, resp.Service.FullDayPriceCents)
	assert.Equal(t, int64(40000), *resp.Service.FullDayPriceCents)
}

func TestService_SelectServiceReloadsCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	_, err := env.svc.ToggleSlot(ctx, id, "10:00")
	require.NoError(t, err)

	resp, err := env.svc.SelectService(ctx, id, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Service.ID)
	assert.Empty(t, resp.Slots)
	require.NotEmpty(t, resp.Catalog)
	assert.Equal(t, int64(6000), resp.Catalog[0].PriceCents)
	require.Equal(t, 2, env.slots.calls())
	assert.Equal(t, int64(2), env.slots.requests[1].ServiceID)
	assert.Equal(t, testDate, env.slots.requests[1].Date)
}

func TestService_SelectServiceClearsUnbookableDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	env.slots.fail = func(*listSlots.Request) error {
		return listSlots.ErrDateTooFarInFuture
	}

	resp, err := env.svc.SelectService(ctx, id, 2)
	require.NoError(t, err)
	assert.Nil(t, resp.Date)
	assert.Empty(t, resp.Catalog)
	assert.Equal(t, int64(2), resp.Service.ID)
}

func TestService_SelectDateErrors(t *testing.T) {
	tests := []struct {
		name    string
		slotErr error
		wantErr error
	}{
		{name: "past date", slotErr: listSlots.ErrInvalidDate, wantErr: ErrInvalidDate},
		{name: "too far", slotErr: listSlots.ErrDateTooFarInFuture, wantErr: ErrDateTooFarInFuture},
		{name: "unknown service", slotErr: listSlots.ErrServiceNotFound, wantErr: ErrServiceNotFound},
		{name: "internal", slotErr: errors.New("boom"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			id := env.onDateStep(t, 1)
			before, err := env.svc.Get(ctx, id)
			require.NoError(t, err)

			env.slots.fail = func(*listSlots.Request) error { return tt.slotErr }

			_, err = env.svc.SelectDate(ctx, id, testDate.AddDate(0, 0, 1))
			require.ErrorIs(t, err, tt.wantErr)

			after, err := env.svc.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, before.Version, after.Version)
			assert.Equal(t, before.Date, after.Date)
		})
	}
}

func TestService_SelectDateInWrongStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	_, err = env.svc.SelectDate(ctx, id, testDate)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, env.slots.calls())
}

func TestService_InputErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	_, err := env.svc.ToggleSlot(ctx, id, "9am")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.SelectService(ctx, id, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.SelectService(ctx, id, 42)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = env.svc.SelectDate(ctx, id, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.SetMode(ctx, id, domain.BookingMode("weekly"))
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestService_RejectedTransitionKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	before, err := env.svc.Get(ctx, id)
	require.NoError(t, err)

	_, err = env.svc.ToggleSlot(ctx, id, "13:00")
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = env.svc.Advance(ctx, id)
	require.ErrorIs(t, err, domain.ErrIncompleteSelection)

	after, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_AdvanceFromDetailsRequiresSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.onDateStep(t, 1)

	_, err := env.svc.ToggleSlot(ctx, id, "10:00")
	require.NoError(t, err)
	_, err = env.svc.Advance(ctx, id)
	require.NoError(t, err)

	_, err = env.svc.Advance(ctx, id)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	resp, err := env.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StepSelectingDateAndSlots), resp.Step)
	assert.Equal(t, []string{"10:00"}, resp.Slots)
}

func TestService_Back(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	_, err = env.svc.Back(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestService_SessionErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.svc.SetMode(ctx, uuid.New(), domain.ModeMulti)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	env.clock.now = testNow.Add(2 * time.Hour)
	_, err = env.svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_TransitionExtendsTTL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	env.clock.now = testNow.Add(50 * time.Minute)
	resp, err := env.svc.SelectService(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(110*time.Minute), resp.ExpiresAt)
	assert.Equal(t, int64(2), resp.Version)
}

func TestService_VersionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	env.svc.sessions = conflictingRepo{MemoryRepository: env.repo}

	_, err = env.svc.SelectService(ctx, id, 1)
	require.ErrorIs(t, err, ErrVersionConflict)
}

func TestService_ObservesTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	_, err = env.svc.Advance(ctx, id)
	require.Error(t, err)

	require.Len(t, env.metrics.records, 2)
	assert.Equal(t, OpStart, env.metrics.records[0].op)
	assert.NoError(t, env.metrics.records[0].err)
	assert.Equal(t, OpAdvance, env.metrics.records[1].op)
	assert.ErrorIs(t, env.metrics.records[1].err, domain.ErrIncompleteSelection)
}
