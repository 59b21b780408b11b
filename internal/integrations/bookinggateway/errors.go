package bookinggateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("booking gateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("booking gateway client: invalid response")

	// ErrUnavailable возвращается, когда шлюз не смог обработать запрос (5xx, неожиданный статус)
	ErrUnavailable = errors.New("booking gateway unavailable")
)
