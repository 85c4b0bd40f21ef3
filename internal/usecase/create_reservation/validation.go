package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ActivityID <= 0 {
		return fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}

	// Проверяем, что метка слота указана и имеет формат "<день недели> HH:MM"
	if req.ScheduleSlot.IsZero() {
		return fmt.Errorf("%w: scheduleSlot is required", ErrInvalidInput)
	}
	if err := req.ScheduleSlot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid scheduleSlot format: %v", ErrInvalidInput, err)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ParticipantCount < domain.MinParticipantCount {
		return fmt.Errorf("%w: participantCount must be at least %d",
			ErrInvalidParticipantCount, domain.MinParticipantCount)
	}

	return nil
}

// validateSlotMembership проверяет, что метка слота входит в расписание активности
// и что дата попадает на день недели слота
func validateSlotMembership(activity *activityservice.Activity, slot types.SlotLabel, date time.Time) error {
	if !activity.HasSlot(slot) {
		return ErrInvalidSlot
	}

	if !slot.MatchesDate(date) {
		return fmt.Errorf("%w: date %s does not fall on the slot's weekday", ErrInvalidDate, date.Format(domain.DateFormat))
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования с учетом политики
func validateDate(date time.Time, now time.Time, maxAdvanceDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// validateNotice проверяет, что до начала слота осталось не меньше minNoticeMinutes
func validateNotice(slot types.SlotLabel, date time.Time, now time.Time, minNoticeMinutes int) error {
	if minNoticeMinutes <= 0 {
		return nil
	}

	slotStart, err := slot.StartOn(date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if slotStart.Sub(now) < time.Duration(minNoticeMinutes)*time.Minute {
		return fmt.Errorf("%w: requires at least %d minutes notice", ErrTooLateToBook, minNoticeMinutes)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
