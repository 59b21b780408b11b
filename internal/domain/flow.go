package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// BookingFlow is the booking wizard state machine:
//
//	selecting_service -> selecting_date_and_slots -> entering_customer_details -> submitting -> confirmed
//
// Every method takes a SelectionState and returns a new one. On error the
// returned state is the zero value and the input is left untouched, so callers
// simply keep the state they had.
type BookingFlow struct {
	rules    Rules
	now      func() time.Time
	newID    func() uuid.UUID
	validate *validator.Validate
}

// NewBookingFlow creates a flow with the given rules
func NewBookingFlow(rules Rules) *BookingFlow {
	return &BookingFlow{
		rules:    rules,
		now:      time.Now,
		newID:    uuid.New,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// WithClock overrides the clock used to stamp drafts (for tests)
func (f *BookingFlow) WithClock(now func() time.Time) *BookingFlow {
	f.now = now
	return f
}

// WithIDGenerator overrides draft ID generation (for tests)
func (f *BookingFlow) WithIDGenerator(newID func() uuid.UUID) *BookingFlow {
	f.newID = newID
	return f
}

// Rules returns the flow rules
func (f *BookingFlow) Rules() Rules {
	return f.rules
}

// Start returns the initial state: service selection with nothing selected.
func (f *BookingFlow) Start() SelectionState {
	return SelectionState{
		Step: StepSelectingService,
		Mode: ModeSingle,
	}
}

// SelectService picks a service. Slot choices are dropped because the price per slot changes.
// catalog is the slot catalog of the already selected date for the new service,
// nil if no date is selected yet.
func (f *BookingFlow) SelectService(s SelectionState, service Service, catalog []TimeSlot) (SelectionState, error) {
	if s.Step != StepSelectingService && s.Step != StepSelectingDateAndSlots {
		return SelectionState{}, fmt.Errorf("%w: cannot change service in step %s", ErrInvalidTransition, s.Step)
	}

	next := s.Clone()
	svc := service.clone()
	next.Service = &svc
	next.Catalog = nil
	if next.HasDate() {
		next.Catalog = cloneSlots(catalog)
	}
	next.Slots = f.initialSlots(next)
	next.FailureReason = ""

	return next, nil
}

// SelectDate picks a day and replaces the catalog. Slot choices are dropped.
func (f *BookingFlow) SelectDate(s SelectionState, date time.Time, catalog []TimeSlot) (SelectionState, error) {
	if s.Step != StepSelectingDateAndSlots {
		return SelectionState{}, fmt.Errorf("%w: cannot change date in step %s", ErrInvalidTransition, s.Step)
	}
	if date.IsZero() {
		return SelectionState{}, fmt.Errorf("%w: date is required", ErrIncompleteSelection)
	}
	if !s.HasService() {
		return SelectionState{}, fmt.Errorf("%w: service must be selected first", ErrIncompleteSelection)
	}

	next := s.Clone()
	next.Date = DateOnly(date)
	next.Catalog = cloneSlots(catalog)
	next.Slots = f.initialSlots(next)
	next.FailureReason = ""

	return next, nil
}

// SetMode switches the booking mode. The slot set is cleared, except when
// entering full-day, which fills it with the whole window.
// Selecting the current mode again is a no-op.
func (f *BookingFlow) SetMode(s SelectionState, mode BookingMode) (SelectionState, error) {
	if !mode.IsValid() {
		return SelectionState{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if s.Step != StepSelectingDateAndSlots {
		return SelectionState{}, fmt.Errorf("%w: cannot change mode in step %s", ErrInvalidTransition, s.Step)
	}
	if s.Mode == mode {
		return s.Clone(), nil
	}

	next := s.Clone()
	next.Mode = mode
	next.Slots = f.initialSlots(next)

	return next, nil
}

// ToggleSlot removes a selected slot or adds an unselected one.
// In single mode a new slot replaces the current one; in multi mode adding
// beyond MaxMultiSlots fails with ErrSelectionLimitExceeded.
func (f *BookingFlow) ToggleSlot(s SelectionState, t types.TimeString) (SelectionState, error) {
	if s.Step != StepSelectingDateAndSlots {
		return SelectionState{}, fmt.Errorf("%w: cannot change slots in step %s", ErrInvalidTransition, s.Step)
	}
	if s.Mode == ModeFullDay {
		return SelectionState{}, fmt.Errorf("%w: slots are fixed in full-day mode", ErrInvalidTransition)
	}
	if err := t.Validate(); err != nil {
		return SelectionState{}, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}

	next := s.Clone()

	if s.IsSelected(t) {
		next.Slots = make([]types.TimeString, 0, len(s.Slots))
		for _, selected := range s.Slots {
			if selected != t {
				next.Slots = append(next.Slots, selected)
			}
		}
		return next, nil
	}

	if !s.HasDate() {
		return SelectionState{}, fmt.Errorf("%w: date must be selected first", ErrIncompleteSelection)
	}
	slot, ok := findSlot(s.Catalog, t)
	if !ok {
		return SelectionState{}, fmt.Errorf("%w: %s is outside the operating window", ErrSlotUnavailable, t)
	}
	if !slot.Available {
		return SelectionState{}, fmt.Errorf("%w: %s is already booked", ErrSlotUnavailable, t)
	}

	switch s.Mode {
	case ModeMulti:
		if len(s.Slots) >= f.rules.MaxMultiSlots {
			return SelectionState{}, fmt.Errorf("%w: at most %d slots can be selected", ErrSelectionLimitExceeded, f.rules.MaxMultiSlots)
		}
		next.Slots = append(next.Slots, t)
		sortLabels(next.Slots)
	default:
		next.Slots = []types.TimeString{t}
	}

	return next, nil
}

// SetContact stores customer details. Validation happens on Advance/Finalize,
// so partially filled forms can be saved.
func (f *BookingFlow) SetContact(s SelectionState, contact ContactInfo) (SelectionState, error) {
	if s.Step != StepEnteringCustomerDetails {
		return SelectionState{}, fmt.Errorf("%w: cannot set contact info in step %s", ErrInvalidTransition, s.Step)
	}

	next := s.Clone()
	next.Contact = ContactInfo{
		Name:  strings.TrimSpace(contact.Name),
		Email: strings.TrimSpace(contact.Email),
		Phone: strings.TrimSpace(contact.Phone),
	}
	return next, nil
}

// Advance moves one step forward.
// From entering_customer_details this is Finalize: the state enters submitting with a draft.
func (f *BookingFlow) Advance(s SelectionState) (SelectionState, error) {
	switch s.Step {
	case StepSelectingService:
		if !s.HasService() {
			return SelectionState{}, fmt.Errorf("%w: service is required", ErrIncompleteSelection)
		}
		next := s.Clone()
		next.Step = StepSelectingDateAndSlots
		return next, nil

	case StepSelectingDateAndSlots:
		if err := f.ValidateSelection(s); err != nil {
			return SelectionState{}, err
		}
		next := s.Clone()
		next.Step = StepEnteringCustomerDetails
		return next, nil

	case StepEnteringCustomerDetails:
		next, _, err := f.Finalize(s)
		return next, err

	default:
		return SelectionState{}, fmt.Errorf("%w: cannot advance from step %s", ErrInvalidTransition, s.Step)
	}
}

// Back moves exactly one step backward. Not allowed from the first step and
// from confirmed. Going back from submitting keeps the draft pending: the
// outstanding gateway result is still applied when it arrives.
func (f *BookingFlow) Back(s SelectionState) (SelectionState, error) {
	if s.Step == StepSelectingService || s.Step == StepConfirmed {
		return SelectionState{}, fmt.Errorf("%w: cannot go back from step %s", ErrInvalidTransition, s.Step)
	}
	prev, ok := s.Step.previous()
	if !ok {
		return SelectionState{}, fmt.Errorf("%w: unknown step %s", ErrInvalidTransition, s.Step)
	}

	next := s.Clone()
	next.Step = prev
	next.FailureReason = ""
	return next, nil
}

// Finalize validates selection and contact info again and produces the draft.
// If the retained draft describes the same booking it is reused as is.
// While the retained draft is pending a different booking is refused with
// ErrSubmissionUnresolved, so one booking never reaches the gateway under two IDs.
func (f *BookingFlow) Finalize(s SelectionState) (SelectionState, BookingDraft, error) {
	if s.Step != StepEnteringCustomerDetails {
		return SelectionState{}, BookingDraft{}, fmt.Errorf("%w: cannot finalize in step %s", ErrInvalidTransition, s.Step)
	}
	if err := f.ValidateSelection(s); err != nil {
		return SelectionState{}, BookingDraft{}, err
	}
	if err := f.ValidateContact(s.Contact); err != nil {
		return SelectionState{}, BookingDraft{}, err
	}

	draft := BookingDraft{
		Date:        s.Date,
		ServiceID:   s.Service.ID,
		ServiceName: s.Service.Name,
		TotalCents:  f.Price(s),
		Customer:    s.Contact,
	}
	if s.Mode == ModeFullDay {
		draft.FullDay = true
	} else {
		draft.Slots = cloneLabels(s.Slots)
	}

	if s.Draft != nil && s.Draft.sameContent(draft) {
		draft.ID = s.Draft.ID
		draft.CreatedAt = s.Draft.CreatedAt
	} else if s.SubmissionPending && s.Draft != nil {
		return SelectionState{}, BookingDraft{}, fmt.Errorf("%w: draft %s must be resubmitted unchanged", ErrSubmissionUnresolved, s.Draft.ID)
	} else {
		draft.ID = f.newID()
		draft.CreatedAt = f.now().UTC()
	}

	next := s.Clone()
	next.Step = StepSubmitting
	next.Draft = &draft
	next.SubmissionPending = true
	next.FailureReason = ""

	return next, draft.Clone(), nil
}

// CompleteSubmission applies a successful gateway answer for the pending draft.
// The session is confirmed even if the user went back meanwhile; the selection
// is reset to what the draft booked.
func (f *BookingFlow) CompleteSubmission(s SelectionState, draftID uuid.UUID, confirmationID string) (SelectionState, error) {
	if err := checkPending(s, draftID); err != nil {
		return SelectionState{}, err
	}

	next := s.Clone()
	restoreDraft(&next, *s.Draft)
	next.Step = StepConfirmed
	next.ConfirmationID = confirmationID
	next.SubmissionPending = false
	next.FailureReason = ""
	return next, nil
}

// FailSubmission applies a gateway rejection: the draft is resolved and kept.
// From submitting the flow returns to customer details; if the user already
// went back, the step is left alone.
func (f *BookingFlow) FailSubmission(s SelectionState, draftID uuid.UUID, reason string) (SelectionState, error) {
	if err := checkPending(s, draftID); err != nil {
		return SelectionState{}, err
	}

	next := s.Clone()
	if next.Step == StepSubmitting {
		next.Step = StepEnteringCustomerDetails
	}
	next.SubmissionPending = false
	next.FailureReason = truncateReason(reason)
	return next, nil
}

// InterruptSubmission applies a gateway call with an unknown outcome (transport
// error, timeout). Like FailSubmission, but the draft stays pending: only an
// unchanged resubmit, carrying the same idempotency key, can resolve it.
func (f *BookingFlow) InterruptSubmission(s SelectionState, draftID uuid.UUID, reason string) (SelectionState, error) {
	if err := checkPending(s, draftID); err != nil {
		return SelectionState{}, err
	}

	next := s.Clone()
	if next.Step == StepSubmitting {
		next.Step = StepEnteringCustomerDetails
	}
	next.FailureReason = truncateReason(reason)
	return next, nil
}

// ValidateSelection checks date, service and slots against the mode
func (f *BookingFlow) ValidateSelection(s SelectionState) error {
	if !s.HasService() {
		return fmt.Errorf("%w: service is required", ErrIncompleteSelection)
	}
	if !s.HasDate() {
		return fmt.Errorf("%w: date is required", ErrIncompleteSelection)
	}

	if s.Mode == ModeFullDay {
		if len(s.Catalog) == 0 {
			return fmt.Errorf("%w: no slots for the selected date", ErrIncompleteSelection)
		}
		for _, slot := range s.Catalog {
			if !slot.Available {
				return fmt.Errorf("%w: %s is already booked, full day is not available", ErrSlotUnavailable, slot.Time)
			}
		}
		return nil
	}

	if len(s.Slots) == 0 {
		return fmt.Errorf("%w: at least one time slot is required", ErrIncompleteSelection)
	}
	if s.Mode == ModeSingle && len(s.Slots) > 1 {
		return fmt.Errorf("%w: only one slot allowed in single mode", ErrSelectionLimitExceeded)
	}
	if s.Mode == ModeMulti && len(s.Slots) > f.rules.MaxMultiSlots {
		return fmt.Errorf("%w: at most %d slots can be selected", ErrSelectionLimitExceeded, f.rules.MaxMultiSlots)
	}
	for _, t := range s.Slots {
		slot, ok := findSlot(s.Catalog, t)
		if !ok || !slot.Available {
			return fmt.Errorf("%w: %s", ErrSlotUnavailable, t)
		}
	}
	return nil
}

// ValidateContact requires a name and a plausible email
func (f *BookingFlow) ValidateContact(c ContactInfo) error {
	if err := f.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteContactInfo, describeValidation(err))
	}
	return nil
}

// Price derives the current total from the state. Computed on every call.
// A confirmed booking costs what its draft was submitted with.
func (f *BookingFlow) Price(s SelectionState) int64 {
	if s.Step == StepConfirmed && s.Draft != nil {
		return s.Draft.TotalCents
	}
	if !s.HasService() {
		return 0
	}
	return Price(*s.Service, s.Mode, len(s.Slots), f.rules.Window)
}

// initialSlots is the slot set right after a reset: empty, or the whole window in full-day mode
func (f *BookingFlow) initialSlots(s SelectionState) []types.TimeString {
	if s.Mode != ModeFullDay {
		return nil
	}
	if len(s.Catalog) > 0 {
		labels := make([]types.TimeString, len(s.Catalog))
		for i, slot := range s.Catalog {
			labels[i] = slot.Time
		}
		sortLabels(labels)
		return labels
	}
	return f.rules.Window.Labels()
}

func checkPending(s SelectionState, draftID uuid.UUID) error {
	if !s.SubmissionPending || s.Draft == nil || s.Draft.ID != draftID {
		return fmt.Errorf("%w: draft %s is not pending", ErrStaleSubmission, draftID)
	}
	return nil
}

// restoreDraft puts the booked selection back into the state.
// A catalog loaded for another date or service is dropped.
func restoreDraft(s *SelectionState, d BookingDraft) {
	if s.Service == nil || s.Service.ID != d.ServiceID || !s.Date.Equal(d.Date) {
		s.Catalog = nil
	}
	if s.Service == nil || s.Service.ID != d.ServiceID {
		s.Service = &Service{ID: d.ServiceID, Name: d.ServiceName}
	}
	s.Date = d.Date
	s.Contact = d.Customer

	switch {
	case d.FullDay:
		s.Mode = ModeFullDay
		s.Slots = make([]types.TimeString, 0, len(s.Catalog))
		for _, slot := range s.Catalog {
			s.Slots = append(s.Slots, slot.Time)
		}
	case len(d.Slots) > 1:
		s.Mode = ModeMulti
		s.Slots = cloneLabels(d.Slots)
	default:
		if s.Mode == ModeFullDay {
			s.Mode = ModeSingle
		}
		s.Slots = cloneLabels(d.Slots)
	}
}

func truncateReason(reason string) string {
	if utf8.RuneCountInString(reason) <= MaxFailureReasonLength {
		return reason
	}
	runes := []rune(reason)
	return string(runes[:MaxFailureReasonLength])
}

func describeValidation(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, strings.ToLower(fe.Field())+" is required")
		case "email":
			fields = append(fields, "email is not valid")
		case "max":
			fields = append(fields, strings.ToLower(fe.Field())+" is too long")
		default:
			fields = append(fields, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return strings.Join(fields, ", ")
}
