package get_activity_reservations

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest создает запрос сервиса из path и query параметров
// date имеет приоритет над startDate/endDate: выборка одного дня
func ToServiceRequest(activityID, userID int64, slotStr, statusStr, dateStr, startDateStr, endDateStr, includeInactiveStr string) (*models.GetActivityReservationsRequest, error) {
	req := &models.GetActivityReservationsRequest{
		UserID:     userID,
		ActivityID: activityID,
	}

	if slotStr != "" {
		req.ScheduleSlot = &slotStr
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if startDateStr != "" {
			startDate, err := time.Parse(domain.DateFormat, startDateStr)
			if err != nil {
				return nil, fmt.Errorf("parse startDate: %w", err)
			}
			req.StartDate = &startDate
		}
		if endDateStr != "" {
			endDate, err := time.Parse(domain.DateFormat, endDateStr)
			if err != nil {
				return nil, fmt.Errorf("parse endDate: %w", err)
			}
			req.EndDate = &endDate
		}
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("parse includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
