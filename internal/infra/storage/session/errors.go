package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена (или истекла в redis)
	ErrSessionNotFound = errors.New("session.repository: session not found")

	// ErrVersionConflict возвращается, когда сессию изменили после чтения
	ErrVersionConflict = errors.New("session.repository: version conflict")

	// ErrSessionExists возвращается при повторном создании сессии с тем же ID
	ErrSessionExists = errors.New("session.repository: session already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("session.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения запроса
	ErrExecQuery = errors.New("session.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("session.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации состояния
	ErrEncode = errors.New("session.repository: failed to encode state")

	// ErrDecode возвращается при ошибке десериализации состояния
	ErrDecode = errors.New("session.repository: failed to decode state")
)
