package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetActiveByBucket получает активные бронирования корзины (активность + слот + дата)
	GetActiveByBucket(ctx context.Context, bucket domain.SlotBucket) ([]*domain.Reservation, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	// GetEffective получает действующую политику активности (с fallback на глобальную)
	GetEffective(ctx context.Context, activityID int64) (*domain.ReservationPolicy, error)
}

// ActivityServiceClient интерфейс клиента каталога активностей
type ActivityServiceClient interface {
	GetActivity(ctx context.Context, activityID int64) (*activityservice.Activity, error)
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
