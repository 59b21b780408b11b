package availability

// CheckResponse ответ сервиса занятости
type CheckResponse struct {
	Available bool `json:"available"`
}
