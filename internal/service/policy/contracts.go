package policy

import (
	"context"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetEffective(ctx context.Context, activityID int64) (*domain.ReservationPolicy, error)
	GetByActivity(ctx context.Context, activityID *int64) (*domain.ReservationPolicy, error)
	Upsert(ctx context.Context, p *domain.ReservationPolicy) (*domain.ReservationPolicy, error)
	Delete(ctx context.Context, activityID *int64) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
