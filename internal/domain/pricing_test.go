package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

func TestPrice(t *testing.T) {
	window := DefaultRules().Window
	recording := Service{ID: 1, Name: "Recording", HourlyPriceCents: 7500}
	mixing := Service{ID: 2, Name: "Mixing", HourlyPriceCents: 6000, FullDayPriceCents: ptr.Ptr(int64(40000))}

	tests := []struct {
		name    string
		service Service
		mode    BookingMode
		count   int
		want    int64
	}{
		{name: "single slot", service: recording, mode: ModeSingle, count: 1, want: 7500},
		{name: "three slots", service: recording, mode: ModeMulti, count: 3, want: 22500},
		{name: "nothing selected", service: recording, mode: ModeMulti, count: 0, want: 0},
		{name: "flat full-day rate", service: mixing, mode: ModeFullDay, count: 13, want: 40000},
		{name: "full-day ignores slot count", service: mixing, mode: ModeFullDay, count: 0, want: 40000},
		{name: "full-day without flat rate", service: recording, mode: ModeFullDay, count: 13, want: 7500 * 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.service, tt.mode, tt.count, window))
		})
	}
}

func TestOperatingWindow(t *testing.T) {
	window := DefaultRules().Window
	assert.NoError(t, window.Validate())
	assert.Equal(t, 13, window.Hours())

	labels := window.Labels()
	assert.Len(t, labels, 13)
	assert.Equal(t, "09:00", labels[0].String())
	assert.Equal(t, "21:00", labels[12].String())

	late := OperatingWindow{Open: "20:00", Close: "24:00"}
	assert.NoError(t, late.Validate())
	assert.Len(t, late.Labels(), 4)

	assert.Error(t, OperatingWindow{Open: "10:00", Close: "09:00"}.Validate())
	assert.Error(t, OperatingWindow{Open: "09:00", Close: "10:30"}.Validate())
}

func TestRules_Validate(t *testing.T) {
	rules := DefaultRules()
	assert.NoError(t, rules.Validate())

	rules.MaxMultiSlots = 1
	assert.Error(t, rules.Validate())
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "75.00", FormatCents(7500))
	assert.Equal(t, "225.00", FormatCents(22500))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-1.50", FormatCents(-150))
}
