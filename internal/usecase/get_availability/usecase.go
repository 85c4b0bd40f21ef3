package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	activityClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
)

// UseCase use case расчета доступной ёмкости корзины (активность + слот + дата)
// Чистое чтение: единственный источник правды - сохранённые бронирования,
// никакого состояния в памяти между запросами
type UseCase struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	activityClient  ActivityServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	activityClient ActivityServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		activityClient:  activityClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчета доступной ёмкости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: activity=%d, slot=%s, date=%s",
		req.ActivityID, req.ScheduleSlot, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем активность из каталога
	activity, err := uc.activityClient.GetActivity(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, activityClient.ErrActivityNotFound) {
			uc.logger.Warn("GetAvailability: activity id=%d not found", req.ActivityID)
			return nil, ErrActivityNotFound
		}
		uc.logger.Error("GetAvailability: failed to get activity id=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
	}

	// 4. Проверяем, что слот входит в расписание и дата попадает на его день недели
	if err := validateSlotMembership(activity, req.ScheduleSlot, req.Date); err != nil {
		uc.logger.Warn("GetAvailability: slot validation failed for activity=%d, slot=%s: %v",
			req.ActivityID, req.ScheduleSlot, err)
		return nil, err
	}

	// 5. Получаем действующую политику бронирования
	maxAdvanceDays := domain.DefaultMaxAdvanceDays
	if policy, err := uc.policyRepo.GetEffective(ctx, req.ActivityID); err == nil {
		maxAdvanceDays = policy.MaxAdvanceDays
	} else if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailability: failed to get policy for activity=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 6. Валидация даты с учетом политики
	if err := validateDate(req.Date, now, maxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 7. Читаем активные бронирования корзины и считаем остаток
	bucket := domain.SlotBucket{
		ActivityID:     req.ActivityID,
		ScheduleSlot:   req.ScheduleSlot,
		OccurrenceDate: req.Date,
	}

	reservations, err := uc.reservationRepo.GetActiveByBucket(ctx, bucket)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	availability := domain.ComputeAvailability(bucket, activity.MaxCapacity, reservations)

	uc.logger.Info("GetAvailability: activity=%d, slot=%s, date=%s: %d/%d spots free",
		req.ActivityID, req.ScheduleSlot, req.Date.Format(domain.DateFormat),
		availability.RemainingCap, availability.MaxCapacity)

	return &Response{
		ActivityID:     req.ActivityID,
		ScheduleSlot:   req.ScheduleSlot,
		Date:           req.Date,
		MaxCapacity:    availability.MaxCapacity,
		ReservedSpots:  availability.ReservedSum,
		RemainingSpots: availability.RemainingCap,
	}, nil
}
