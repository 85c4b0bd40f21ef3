package activityservice

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("activityservice client: activity not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("activityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("activityservice client: invalid response")
)
