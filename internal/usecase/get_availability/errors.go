package get_availability

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("get_availability: activity not found")

	// ErrInvalidSlot возвращается, когда метка слота не входит в расписание активности
	ErrInvalidSlot = errors.New("get_availability: slot is not in activity schedule")

	// ErrInvalidDate возвращается, когда дата в прошлом или не соответствует дню недели слота
	ErrInvalidDate = errors.New("get_availability: invalid occurrence date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("get_availability: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
