package domain

import "github.com/m04kA/SMC-StudioBooking/pkg/types"

// TimeSlot is one bookable hour of a day for a given service.
type TimeSlot struct {
	Time       types.TimeString `json:"time"`
	Available  bool             `json:"available"`
	PriceCents int64            `json:"priceCents"`
}

// findSlot returns the catalog entry for the given time
func findSlot(catalog []TimeSlot, t types.TimeString) (TimeSlot, bool) {
	for _, slot := range catalog {
		if slot.Time == t {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

func cloneSlots(slots []TimeSlot) []TimeSlot {
	if slots == nil {
		return nil
	}
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	return out
}
