package select_service

// SelectServiceRequest HTTP request model
type SelectServiceRequest struct {
	ServiceID int64 `json:"serviceId"`
}
