package set_booking_mode

// SetModeRequest HTTP request model
type SetModeRequest struct {
	Mode string `json:"mode"` // single | multi | full-day
}
