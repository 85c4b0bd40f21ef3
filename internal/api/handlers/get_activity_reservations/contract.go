package get_activity_reservations

import (
	"context"

	"github.com/m04kA/SportHub-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	GetActivityReservations(ctx context.Context, req *models.GetActivityReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
