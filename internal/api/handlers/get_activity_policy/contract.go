package get_activity_policy

import (
	"context"

	"github.com/m04kA/SportHub-ReservationService/internal/service/policy/models"
)

type PolicyService interface {
	GetEffective(ctx context.Context, activityID int64) (*models.EffectivePolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
