package create_reservation

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SportHub-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ActivityID       int64   `json:"activityId"`
	ScheduleSlot     string  `json:"scheduleSlot"` // "Monday 18:00"
	Date             string  `json:"date"`         // "2025-10-15"
	ParticipantCount int     `json:"participantCount"`
	Notes            *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"userId"`
	ActivityID       int64   `json:"activityId"`
	ScheduleSlot     string  `json:"scheduleSlot"`
	OccurrenceDate   string  `json:"occurrenceDate"`
	ParticipantCount int     `json:"participantCount"`
	Status           string  `json:"status"`
	ActivityName     string  `json:"activityName"`
	UnitPrice        float64 `json:"unitPrice"`
	TotalPrice       float64 `json:"totalPrice"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	// Парсим метку слота
	slot, err := types.NewSlotLabel(r.ScheduleSlot)
	if err != nil {
		return nil, err
	}

	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:           userID,
		ActivityID:       r.ActivityID,
		ScheduleSlot:     slot,
		Date:             date,
		ParticipantCount: r.ParticipantCount,
		Notes:            r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	res := resp.Reservation

	return &ReservationResponse{
		ID:               res.ID,
		UserID:           res.UserID,
		ActivityID:       res.ActivityID,
		ScheduleSlot:     string(res.ScheduleSlot),
		OccurrenceDate:   res.OccurrenceDate.Format(domain.DateFormat),
		ParticipantCount: res.ParticipantCount,
		Status:           string(res.Status),
		ActivityName:     res.ActivityName,
		UnitPrice:        res.UnitPrice,
		TotalPrice:       res.TotalPrice,
		Notes:            res.Notes,
		CreatedAt:        res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        res.UpdatedAt.Format(time.RFC3339),
	}
}
