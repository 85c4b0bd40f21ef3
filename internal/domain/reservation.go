package domain

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// CancelledBy records which side of the platform cancelled a reservation
type CancelledBy string

const (
	CancelledByUser  CancelledBy = "user"
	CancelledByAdmin CancelledBy = "admin"
)

// Reservation represents a user's reservation of spots in an activity occurrence
type Reservation struct {
	ID               int64
	UserID           int64
	ActivityID       int64
	ScheduleSlot     types.SlotLabel // один из слотов расписания активности, например "Monday 18:00"
	OccurrenceDate   time.Time       // конкретная дата, к которой относится слот
	ParticipantCount int
	Status           ReservationStatus

	// Denormalized data for history
	ActivityName string
	UnitPrice    float64
	TotalPrice   float64
	Notes        *string

	CancellationReason *string
	CancelledBy        *CancelledBy
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bucket returns the capacity bucket this reservation consumes
func (r *Reservation) Bucket() SlotBucket {
	return SlotBucket{
		ActivityID:     r.ActivityID,
		ScheduleSlot:   r.ScheduleSlot,
		OccurrenceDate: r.OccurrenceDate,
	}
}

// IsActive returns true if the reservation still consumes bucket capacity
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeConfirmed returns true if the reservation may transition to confirmed
func (r *Reservation) CanBeConfirmed() bool {
	return r.Status == StatusPending
}

// CanBeCancelled returns true if the reservation may transition to cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// ActivityReservationsFilter фильтр для выборки бронирований активности
type ActivityReservationsFilter struct {
	ActivityID      int64              // Обязательный параметр
	ScheduleSlot    *types.SlotLabel   // Фильтр по слоту расписания (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые бронирования
}
