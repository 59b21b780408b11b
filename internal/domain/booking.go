package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// BookingDraft is the finalized booking request handed to the booking gateway.
// A draft is created once by BookingFlow.Finalize and never modified afterwards;
// use Clone when a copy is needed.
type BookingDraft struct {
	ID          uuid.UUID          `json:"id"`
	Date        time.Time          `json:"date"`
	Slots       []types.TimeString `json:"slots,omitempty"` // empty when FullDay
	FullDay     bool               `json:"fullDay"`
	ServiceID   int64              `json:"serviceId"`
	ServiceName string             `json:"serviceName"`
	TotalCents  int64              `json:"totalCents"`
	Customer    ContactInfo        `json:"customer"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Clone returns a deep copy
func (d BookingDraft) Clone() BookingDraft {
	d.Slots = cloneLabels(d.Slots)
	return d
}

// TimeDescriptor returns "full-day" or the comma separated slot list
func (d BookingDraft) TimeDescriptor() string {
	if d.FullDay {
		return string(ModeFullDay)
	}
	out := ""
	for i, slot := range d.Slots {
		if i > 0 {
			out += ","
		}
		out += slot.String()
	}
	return out
}

// sameContent reports whether two drafts describe the same booking, ignoring ID and CreatedAt
func (d BookingDraft) sameContent(other BookingDraft) bool {
	if !d.Date.Equal(other.Date) ||
		d.FullDay != other.FullDay ||
		d.ServiceID != other.ServiceID ||
		d.ServiceName != other.ServiceName ||
		d.TotalCents != other.TotalCents ||
		d.Customer != other.Customer ||
		len(d.Slots) != len(other.Slots) {
		return false
	}
	for i := range d.Slots {
		if d.Slots[i] != other.Slots[i] {
			return false
		}
	}
	return true
}

// SubmissionResult is the booking gateway answer for one draft
type SubmissionResult struct {
	Success        bool
	ConfirmationID string
	Reason         string
}
