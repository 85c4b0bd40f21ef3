package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// ConfirmReservationRequest запрос на подтверждение бронирования
type ConfirmReservationRequest struct {
	UserID int64 `json:"userId"`
}

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID       int64   `json:"userId"`
	TargetUserID int64   `json:"targetUserId"`
	Status       *string `json:"status,omitempty"`
}

// GetActivityReservationsRequest запрос на получение бронирований активности
type GetActivityReservationsRequest struct {
	UserID          int64      `json:"userId"`
	ActivityID      int64      `json:"activityId"`
	ScheduleSlot    *string    `json:"scheduleSlot,omitempty"`    // Фильтр по слоту (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetActivityReservationsRequest) ToDomainFilter() (domain.ActivityReservationsFilter, error) {
	filter := domain.ActivityReservationsFilter{
		ActivityID:      r.ActivityID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.ScheduleSlot != nil {
		slot, err := types.NewSlotLabel(*r.ScheduleSlot)
		if err != nil {
			return filter, err
		}
		filter.ScheduleSlot = &slot
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	ActivityID       int64  `json:"activityId"`
	ScheduleSlot     string `json:"scheduleSlot"`   // "Monday 18:00"
	OccurrenceDate   string `json:"occurrenceDate"` // "2025-10-15"
	ParticipantCount int    `json:"participantCount"`
	Status           string `json:"status"`

	// Денормализованные данные
	ActivityName string  `json:"activityName"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalPrice   float64 `json:"totalPrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		ActivityID:         r.ActivityID,
		ScheduleSlot:       string(r.ScheduleSlot),
		OccurrenceDate:     r.OccurrenceDate.Format(domain.DateFormat),
		ParticipantCount:   r.ParticipantCount,
		Status:             string(r.Status),
		ActivityName:       r.ActivityName,
		UnitPrice:          r.UnitPrice,
		TotalPrice:         r.TotalPrice,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledBy != nil {
		cancelledBy := string(*r.CancelledBy)
		resp.CancelledBy = &cancelledBy
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, res := range reservations {
		if resResp := FromDomainReservation(res); resResp != nil {
			resp.Reservations[i] = *resResp
		}
	}

	return resp
}

// legacyStatuses испаноязычные значения статусов из прежней версии платформы
// Принимаем их на входе, храним и отдаем только канонические значения
var legacyStatuses = map[string]domain.ReservationStatus{
	"pendiente":  domain.StatusPending,
	"confirmada": domain.StatusConfirmed,
	"cancelada":  domain.StatusCancelled,
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
// Сравнение без учета регистра: старые клиенты присылают статусы вида "Pendiente"
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))

	validStatuses := []domain.ReservationStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if domain.ReservationStatus(normalized) == valid {
			return valid, nil
		}
	}

	if legacy, ok := legacyStatuses[normalized]; ok {
		return legacy, nil
	}

	return "", ErrInvalidStatus
}
