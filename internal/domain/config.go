package domain

import (
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// OperatingWindow is the daily bookable window, split into one-hour slots.
// Close is exclusive: a 09:00-22:00 window has its last slot at 21:00.
type OperatingWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// Validate checks that the window is well-formed and holds whole slots.
func (w OperatingWindow) Validate() error {
	open, err := w.Open.Minutes()
	if err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	closeAt, err := w.closeMinutes()
	if err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	if closeAt <= open {
		return fmt.Errorf("close time %s must be after open time %s", w.Close, w.Open)
	}
	if (closeAt-open)%SlotDurationMinutes != 0 {
		return fmt.Errorf("window %s-%s is not a whole number of %d-minute slots", w.Open, w.Close, SlotDurationMinutes)
	}
	return nil
}

// Labels returns slot start times in chronological order.
func (w OperatingWindow) Labels() []types.TimeString {
	labels := make([]types.TimeString, 0, w.Hours())
	current := w.Open

	for current.IsBefore(w.Close) {
		end, err := current.AddMinutes(SlotDurationMinutes)
		if err != nil || end.IsAfter(w.Close) {
			break
		}
		labels = append(labels, current)
		current = end
	}

	return labels
}

// Hours returns the length of the window in hours (= number of slots).
func (w OperatingWindow) Hours() int {
	open, err := w.Open.Minutes()
	if err != nil {
		return 0
	}
	closeAt, err := w.closeMinutes()
	if err != nil || closeAt <= open {
		return 0
	}
	return (closeAt - open) / SlotDurationMinutes
}

func (w OperatingWindow) closeMinutes() (int, error) {
	if w.Close == "24:00" {
		return 24 * 60, nil
	}
	return w.Close.Minutes()
}

// Rules are the studio-wide constraints of the booking flow.
type Rules struct {
	Window        OperatingWindow
	MaxMultiSlots int
}

// DefaultRules returns the reference behaviour: 09:00-22:00, up to 4 slots in multi mode.
func DefaultRules() Rules {
	return Rules{
		Window: OperatingWindow{
			Open:  DefaultOpenTime,
			Close: DefaultCloseTime,
		},
		MaxMultiSlots: DefaultMaxMultiSlots,
	}
}

// Validate checks the rules.
func (r Rules) Validate() error {
	if err := r.Window.Validate(); err != nil {
		return err
	}
	if r.MaxMultiSlots < MinMaxMultiSlots || r.MaxMultiSlots > MaxMaxMultiSlots {
		return fmt.Errorf("max multi slots must be between %d and %d", MinMaxMultiSlots, MaxMaxMultiSlots)
	}
	return nil
}
