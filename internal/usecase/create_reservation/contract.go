package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetActiveByBucket(ctx context.Context, bucket domain.SlotBucket) ([]*domain.Reservation, error)
	ExistsActiveByBucketAndUser(ctx context.Context, bucket domain.SlotBucket, userID int64) (bool, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetEffective(ctx context.Context, activityID int64) (*domain.ReservationPolicy, error)
}

// ActivityServiceClient интерфейс клиента каталога активностей
type ActivityServiceClient interface {
	GetActivity(ctx context.Context, activityID int64) (*activityservice.Activity, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
