package models

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
)

// Request модели

// UpsertPolicyRequest запрос на создание или обновление политики бронирования
// ActivityID == nil означает глобальную политику (действует для всех активностей
// без собственной политики)
type UpsertPolicyRequest struct {
	UserID           int64  `json:"userId"`
	ActivityID       *int64 `json:"activityId,omitempty"`
	MinNoticeMinutes int    `json:"minNoticeMinutes"` // Минимальное время до начала слота
	MaxAdvanceDays   int    `json:"maxAdvanceDays"`   // 0 = без ограничений
}

// ToDomainPolicy конвертирует UpsertPolicyRequest в domain модель
func (r *UpsertPolicyRequest) ToDomainPolicy() *domain.ReservationPolicy {
	return &domain.ReservationPolicy{
		ActivityID:       r.ActivityID,
		MinNoticeMinutes: r.MinNoticeMinutes,
		MaxAdvanceDays:   r.MaxAdvanceDays,
	}
}

// DeletePolicyRequest запрос на удаление политики
type DeletePolicyRequest struct {
	UserID     int64  `json:"userId"`
	ActivityID *int64 `json:"activityId,omitempty"`
}

// Response модели

// PolicyResponse ответ с данными политики бронирования
type PolicyResponse struct {
	ID               int64     `json:"id"`
	ActivityID       *int64    `json:"activityId,omitempty"`
	MinNoticeMinutes int       `json:"minNoticeMinutes"`
	MaxAdvanceDays   int       `json:"maxAdvanceDays"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// EffectivePolicyResponse ответ с действующей политикой активности
// IsDefault = true, когда ни собственной, ни глобальной политики нет
// и применяются платформенные значения по умолчанию
type EffectivePolicyResponse struct {
	ActivityID       int64 `json:"activityId"`
	MinNoticeMinutes int   `json:"minNoticeMinutes"`
	MaxAdvanceDays   int   `json:"maxAdvanceDays"`
	IsDefault        bool  `json:"isDefault"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.ReservationPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:               p.ID,
		ActivityID:       p.ActivityID,
		MinNoticeMinutes: p.MinNoticeMinutes,
		MaxAdvanceDays:   p.MaxAdvanceDays,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
