package queue

import "time"

// Действия над бронированием, публикуемые в очередь
// Потребитель - индексатор поиска и сервис уведомлений
const (
	ActionCreated   = "created"
	ActionConfirmed = "confirmed"
	ActionCancelled = "cancelled"
	ActionDeleted   = "deleted"
)

// ReservationEvent событие жизненного цикла бронирования
type ReservationEvent struct {
	Action           string    `json:"action"`
	ReservationID    int64     `json:"reservation_id"`
	UserID           int64     `json:"user_id"`
	ActivityID       int64     `json:"activity_id"`
	ScheduleSlot     string    `json:"schedule_slot"`
	OccurrenceDate   string    `json:"occurrence_date"` // YYYY-MM-DD
	ParticipantCount int       `json:"participant_count"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurred_at"`
}
