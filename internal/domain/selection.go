package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// BookingMode defines how slots are picked
type BookingMode string

const (
	ModeSingle  BookingMode = "single"
	ModeMulti   BookingMode = "multi"
	ModeFullDay BookingMode = "full-day"
)

// IsValid returns true for a known booking mode
func (m BookingMode) IsValid() bool {
	return m == ModeSingle || m == ModeMulti || m == ModeFullDay
}

// Step is the current wizard step
type Step string

const (
	StepSelectingService        Step = "selecting_service"
	StepSelectingDateAndSlots   Step = "selecting_date_and_slots"
	StepEnteringCustomerDetails Step = "entering_customer_details"
	StepSubmitting              Step = "submitting"
	StepConfirmed               Step = "confirmed"
)

// stepOrder is the linear order of the wizard
var stepOrder = []Step{
	StepSelectingService,
	StepSelectingDateAndSlots,
	StepEnteringCustomerDetails,
	StepSubmitting,
	StepConfirmed,
}

// previous returns the step one position back
func (s Step) previous() (Step, bool) {
	for i, step := range stepOrder {
		if step == s && i > 0 {
			return stepOrder[i-1], true
		}
	}
	return "", false
}

// ContactInfo holds the customer details entered on the details step
type ContactInfo struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// SelectionState is the in-progress booking of one session.
// Values are never mutated in place: every BookingFlow transition returns a new value.
type SelectionState struct {
	Step    Step               `json:"step"`
	Date    time.Time          `json:"date"` // calendar day, zero = not selected
	Service *Service           `json:"service,omitempty"`
	Mode    BookingMode        `json:"mode"`
	Slots   []types.TimeString `json:"slots,omitempty"`
	Catalog []TimeSlot         `json:"catalog,omitempty"` // slots of Date for Service
	Contact ContactInfo        `json:"contact"`

	Draft          *BookingDraft `json:"draft,omitempty"` // kept after a failed submission
	ConfirmationID string        `json:"confirmationId,omitempty"`
	FailureReason  string        `json:"failureReason,omitempty"`

	// SubmissionPending is set while the gateway outcome for Draft is not known:
	// the call is in flight or ended with a transport error.
	SubmissionPending bool `json:"submissionPending,omitempty"`
}

// HasDate returns true if a date was selected
func (s SelectionState) HasDate() bool {
	return !s.Date.IsZero()
}

// HasService returns true if a service was selected
func (s SelectionState) HasService() bool {
	return s.Service != nil
}

// IsSelected returns true if the slot is part of the selection
func (s SelectionState) IsSelected(t types.TimeString) bool {
	for _, selected := range s.Slots {
		if selected == t {
			return true
		}
	}
	return false
}

// IsTerminal returns true once the booking is confirmed
func (s SelectionState) IsTerminal() bool {
	return s.Step == StepConfirmed
}

// Clone returns a deep copy
func (s SelectionState) Clone() SelectionState {
	out := s
	if s.Service != nil {
		svc := s.Service.clone()
		out.Service = &svc
	}
	out.Slots = cloneLabels(s.Slots)
	out.Catalog = cloneSlots(s.Catalog)
	if s.Draft != nil {
		draft := s.Draft.Clone()
		out.Draft = &draft
	}
	return out
}

// DateOnly truncates t to its calendar day (UTC midnight), keeping the y/m/d as seen in t's location.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cloneLabels(labels []types.TimeString) []types.TimeString {
	if labels == nil {
		return nil
	}
	out := make([]types.TimeString, len(labels))
	copy(out, labels)
	return out
}

func sortLabels(labels []types.TimeString) {
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].IsBefore(labels[j])
	})
}
