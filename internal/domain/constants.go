package domain

// Default reservation policy values
const (
	DefaultMinNoticeMinutes = 60 // 1 hour
	DefaultMaxAdvanceDays   = 0  // 0 = unlimited
)

// Business validation constants
const (
	MinParticipantCount        = 1
	MinNoticeMinutesLowerBound = 0
	MinNoticeMinutesUpperBound = 10080 // 1 week
	MaxAdvanceDaysLowerBound   = 0
	MaxAdvanceDaysUpperBound   = 365 // 1 year
	MaxNotesLength             = 500
	MaxCancellationReasonLen   = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие места в корзине
// Используются при подсчёте доступной ёмкости
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не занимающие места в корзине
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
}
