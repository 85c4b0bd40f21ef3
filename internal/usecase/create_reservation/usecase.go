package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	activityClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	userClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
)

// publishTimeout предельное время на публикацию события после коммита
const publishTimeout = 5 * time.Second

// UseCase use case создания бронирования
// Проверка ёмкости и вставка выполняются в одной serializable-транзакции:
// сумма мест активных бронирований корзины никогда не превышает max_capacity,
// даже при конкурентных запросах на последние места
type UseCase struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	activityClient  ActivityServiceClient
	userClient      UserServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	activityClient ActivityServiceClient,
	userClient UserServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		activityClient:  activityClient,
		userClient:      userClient,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, activity=%d, slot=%s, date=%s, participants=%d",
		req.UserID, req.ActivityID, req.ScheduleSlot, req.Date.Format(domain.DateFormat), req.ParticipantCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем пользователя в UserService
	user, err := uc.userClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: user id=%d not found", req.UserID)
			return nil, ErrUnauthorized
		}
		uc.logger.Error("CreateReservation: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if !user.IsActive {
		uc.logger.Warn("CreateReservation: user id=%d is deactivated", req.UserID)
		return nil, ErrUnauthorized
	}

	// 4. Получаем активность из каталога
	activity, err := uc.activityClient.GetActivity(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, activityClient.ErrActivityNotFound) {
			uc.logger.Warn("CreateReservation: activity id=%d not found", req.ActivityID)
			return nil, ErrActivityNotFound
		}
		uc.logger.Error("CreateReservation: failed to get activity id=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
	}
	if !activity.IsActive {
		uc.logger.Warn("CreateReservation: activity id=%d is not accepting reservations", req.ActivityID)
		return nil, ErrActivityUnavailable
	}

	// 5. Проверяем слот, день недели и количество участников
	if err := validateSlotMembership(activity, req.ScheduleSlot, req.Date); err != nil {
		uc.logger.Warn("CreateReservation: slot validation failed for activity=%d, slot=%s: %v",
			req.ActivityID, req.ScheduleSlot, err)
		return nil, err
	}
	if req.ParticipantCount > activity.MaxCapacity {
		return nil, fmt.Errorf("%w: participantCount %d exceeds activity capacity %d",
			ErrInvalidParticipantCount, req.ParticipantCount, activity.MaxCapacity)
	}

	// 6. Получаем действующую политику бронирования
	minNoticeMinutes := domain.DefaultMinNoticeMinutes
	maxAdvanceDays := domain.DefaultMaxAdvanceDays
	if policy, err := uc.policyRepo.GetEffective(ctx, req.ActivityID); err == nil {
		minNoticeMinutes = policy.MinNoticeMinutes
		maxAdvanceDays = policy.MaxAdvanceDays
	} else if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("CreateReservation: failed to get policy for activity=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 7. Валидация даты и времени уведомления с учетом политики
	if err := validateDate(req.Date, now, maxAdvanceDays); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return nil, err
	}
	if err := validateNotice(req.ScheduleSlot, req.Date, now, minNoticeMinutes); err != nil {
		uc.logger.Warn("CreateReservation: notice validation failed: %v", err)
		return nil, err
	}

	bucket := domain.SlotBucket{
		ActivityID:     req.ActivityID,
		ScheduleSlot:   req.ScheduleSlot,
		OccurrenceDate: req.Date,
	}

	// 8. Проверка ёмкости и вставка в serializable-транзакции
	// Чтение корзины внутри транзакции блокирует её строки (FOR UPDATE),
	// поэтому два конкурентных запроса на последние места не пройдут оба
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		exists, err := uc.reservationRepo.ExistsActiveByBucketAndUser(txCtx, bucket, req.UserID)
		if err != nil {
			// Ошибка драйвера остается в цепочке (%w): менеджер транзакций
			// распознает serialization failure и повторяет попытку
			return fmt.Errorf("%w: failed to check duplicates: %w", ErrInternal, err)
		}
		if exists {
			return ErrDuplicateReservation
		}

		reservations, err := uc.reservationRepo.GetActiveByBucket(txCtx, bucket)
		if err != nil {
			return fmt.Errorf("%w: failed to get bucket reservations: %w", ErrInternal, err)
		}

		availability := domain.ComputeAvailability(bucket, activity.MaxCapacity, reservations)
		if !availability.Fits(req.ParticipantCount) {
			uc.logger.Warn("CreateReservation: capacity exceeded for activity=%d, slot=%s, date=%s: requested=%d, remaining=%d",
				req.ActivityID, req.ScheduleSlot, req.Date.Format(domain.DateFormat),
				req.ParticipantCount, availability.RemainingCap)
			return ErrCapacityExceeded
		}

		reservation := &domain.Reservation{
			UserID:           req.UserID,
			ActivityID:       req.ActivityID,
			ScheduleSlot:     req.ScheduleSlot,
			OccurrenceDate:   req.Date,
			ParticipantCount: req.ParticipantCount,
			Status:           domain.StatusPending,
			ActivityName:     activity.Name,
			UnitPrice:        activity.Price,
			TotalPrice:       activity.Price * float64(req.ParticipantCount),
			Notes:            req.Notes,
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) || errors.Is(err, ErrDuplicateReservation) {
			return nil, err
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: created reservation id=%d for user=%d, activity=%d",
		created.ID, created.UserID, created.ActivityID)

	// 9. Публикуем событие после коммита, сбой публикации не откатывает бронирование
	uc.publishCreated(created)

	return &Response{Reservation: created}, nil
}

// publishCreated отправляет событие о созданном бронировании (best-effort)
func (uc *UseCase) publishCreated(res *domain.Reservation) {
	if uc.publisher == nil {
		return
	}

	event := queue.ReservationEvent{
		Action:           queue.ActionCreated,
		ReservationID:    res.ID,
		UserID:           res.UserID,
		ActivityID:       res.ActivityID,
		ScheduleSlot:     string(res.ScheduleSlot),
		OccurrenceDate:   res.OccurrenceDate.Format(domain.DateFormat),
		ParticipantCount: res.ParticipantCount,
		Status:           string(res.Status),
		OccurredAt:       uc.timeProvider.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
		}
	}()
}
