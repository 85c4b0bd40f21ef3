package update_activity_policy

import (
	"github.com/m04kA/SportHub-ReservationService/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
type UpdatePolicyRequest struct {
	MinNoticeMinutes int `json:"minNoticeMinutes"`
	MaxAdvanceDays   int `json:"maxAdvanceDays"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
// activityID == nil означает глобальную политику
func (r *UpdatePolicyRequest) ToServiceRequest(userID int64, activityID *int64) *models.UpsertPolicyRequest {
	return &models.UpsertPolicyRequest{
		UserID:           userID,
		ActivityID:       activityID,
		MinNoticeMinutes: r.MinNoticeMinutes,
		MaxAdvanceDays:   r.MaxAdvanceDays,
	}
}
