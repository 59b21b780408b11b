package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidCatalog возвращается при некорректном списке услуг
	ErrInvalidCatalog = errors.New("invalid service catalog")
)
