package submit_booking

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("submit_booking: session not found")

	// ErrAlreadyConfirmed возвращается при повторной отправке подтвержденной брони
	ErrAlreadyConfirmed = errors.New("submit_booking: booking already confirmed")

	// ErrSubmissionInProgress возвращается, пока предыдущая отправка не завершилась
	ErrSubmissionInProgress = errors.New("submit_booking: submission already in progress")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)

// gatewayUnavailableReason причина отказа, когда шлюз не ответил
const gatewayUnavailableReason = "booking gateway unavailable"
