package get_availability

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/SportHub-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ActivityID     int64  `json:"activityId"`
	ScheduleSlot   string `json:"scheduleSlot"`
	Date           string `json:"date"`
	MaxCapacity    int    `json:"maxCapacity"`
	ReservedSpots  int    `json:"reservedSpots"`
	RemainingSpots int    `json:"remainingSpots"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(activityID int64, slotStr, dateStr string) (*getAvailability.Request, error) {
	// Парсим метку слота
	slot, err := types.NewSlotLabel(slotStr)
	if err != nil {
		return nil, err
	}

	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		ActivityID:   activityID,
		ScheduleSlot: slot,
		Date:         date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ActivityID:     resp.ActivityID,
		ScheduleSlot:   string(resp.ScheduleSlot),
		Date:           resp.Date.Format(domain.DateFormat),
		MaxCapacity:    resp.MaxCapacity,
		ReservedSpots:  resp.ReservedSpots,
		RemainingSpots: resp.RemainingSpots,
	}
}
