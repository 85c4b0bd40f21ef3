package create_reservation

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("create_reservation: activity not found")

	// ErrActivityUnavailable возвращается, когда активность неактивна и не принимает бронирования
	ErrActivityUnavailable = errors.New("create_reservation: activity is not accepting reservations")

	// ErrInvalidSlot возвращается, когда метка слота не входит в расписание активности
	ErrInvalidSlot = errors.New("create_reservation: slot is not in activity schedule")

	// ErrInvalidDate возвращается, когда дата в прошлом или не соответствует дню недели слота
	ErrInvalidDate = errors.New("create_reservation: invalid occurrence date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("create_reservation: date is too far in the future")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minNoticeMinutes
	ErrTooLateToBook = errors.New("create_reservation: too late to book this slot")

	// ErrInvalidParticipantCount возвращается при недопустимом количестве участников
	ErrInvalidParticipantCount = errors.New("create_reservation: invalid participant count")

	// ErrUnauthorized возвращается, когда пользователь не найден или деактивирован
	ErrUnauthorized = errors.New("create_reservation: user is not an active identity")

	// ErrCapacityExceeded возвращается, когда запрошенные места не помещаются в остаток корзины
	ErrCapacityExceeded = errors.New("create_reservation: bucket capacity exceeded")

	// ErrDuplicateReservation возвращается, когда у пользователя уже есть активное
	// бронирование в этой корзине
	ErrDuplicateReservation = errors.New("create_reservation: duplicate active reservation for this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
