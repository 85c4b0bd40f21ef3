package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/reservation"
	userClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SportHub-ReservationService/internal/service/reservations/models"
)

// publishTimeout предельное время на публикацию события жизненного цикла
const publishTimeout = 5 * time.Second

// Service сервис жизненного цикла бронирований
// Переходы статусов: pending -> confirmed, pending/confirmed -> cancelled.
// cancelled - терминальное состояние, из него переходов нет
type Service struct {
	reservationRepo ReservationRepository
	userClient      UserServiceClient
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	userClient UserServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		userClient:      userClient,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if res.UserID != userID {
		if err := s.checkAdminAccess(ctx, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю бронирований пользователя
// Свою историю видит каждый, чужую - только администратор
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, requested by=%d, status=%v",
		req.TargetUserID, req.UserID, req.Status)

	if req.TargetUserID != req.UserID {
		if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
			s.logger.Warn("GetUserReservations: access denied for user=%d to history of user=%d",
				req.UserID, req.TargetUserID)
			return nil, ErrAccessDenied
		}
	}

	// Конвертируем статус из строки в domain.ReservationStatus
	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.TargetUserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.TargetUserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.TargetUserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d",
		len(reservations), req.TargetUserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetActivityReservations получает бронирования активности с гибкой фильтрацией
// Поддерживает фильтрацию по слоту, периоду, статусу и включению отменённых
// Доступно только администраторам
//
// Примеры использования:
// - Все активные бронирования: указать только ActivityID
// - Состав конкретной корзины: указать ScheduleSlot, StartDate и EndDate на одну дату
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetActivityReservations(ctx context.Context, req *models.GetActivityReservationsRequest) (*models.ReservationListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetActivityReservations: fetching reservations for activity=%d, user=%d", req.ActivityID, req.UserID)
	if req.ScheduleSlot != nil {
		logMsg += fmt.Sprintf(", slot=%s", *req.ScheduleSlot)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права администратора
	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("GetActivityReservations: access denied for user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetActivityReservations: invalid filter for activity=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByActivityWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetActivityReservations: repository error for activity=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: GetActivityReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetActivityReservations: successfully fetched %d reservations for activity=%d",
		len(reservations), req.ActivityID)
	return models.FromDomainReservationList(reservations), nil
}

// Confirm подтверждает бронирование (pending -> confirmed)
// Доступно только администраторам
func (s *Service) Confirm(ctx context.Context, reservationID int64, req *models.ConfirmReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Confirm: confirming reservation id=%d by user=%d", reservationID, req.UserID)

	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("Confirm: access denied for user=%d to confirm reservation id=%d", req.UserID, reservationID)
		return nil, ErrAccessDenied
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Confirm: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Confirm: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	// Проверяем допустимость перехода
	if !res.CanBeConfirmed() {
		if res.IsCancelled() {
			s.logger.Warn("Confirm: reservation id=%d is already cancelled", reservationID)
			return nil, ErrAlreadyCancelled
		}
		s.logger.Warn("Confirm: reservation id=%d cannot be confirmed, status=%s", reservationID, res.Status)
		return nil, ErrInvalidTransition
	}

	// UPDATE условный (WHERE status = pending): отмена, закоммитившаяся после
	// чтения выше, не будет перезаписана - терминальный статус не воскресает
	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		if errors.Is(err, reservationRepo.ErrStatusConflict) {
			s.logger.Warn("Confirm: reservation id=%d changed concurrently", reservationID)
			return nil, s.resolveStatusConflict(ctx, reservationID)
		}
		s.logger.Error("Confirm: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	res.Status = domain.StatusConfirmed
	s.publishEvent(res, queue.ActionConfirmed)

	s.logger.Info("Confirm: successfully confirmed reservation id=%d", reservationID)
	return models.FromDomainReservation(res), nil
}

// Cancel отменяет бронирование (pending/confirmed -> cancelled)
// Пользователь может отменить только своё бронирование (cancelled_by=user)
// Администратор может отменить любое бронирование (cancelled_by=admin)
// Отмена освобождает места корзины для новых бронирований
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLen {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLen)
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Права проверяются до статуса: посторонний пользователь получает 403,
	// а не узнаёт по 409, что чужое бронирование отменено
	var cancelledBy domain.CancelledBy

	if res.UserID == req.UserID {
		cancelledBy = domain.CancelledByUser
	} else {
		if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", req.UserID, reservationID)
			return ErrAccessDenied
		}
		cancelledBy = domain.CancelledByAdmin
	}

	// Отмена идемпотентно запрещена: повторная отмена - ошибка, не no-op
	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d is already cancelled", reservationID)
		return ErrAlreadyCancelled
	}

	// UPDATE условный (WHERE status IN active): гонка двух отмен не перезапишет
	// cancelled_by и причину первой
	if err := s.reservationRepo.Cancel(ctx, reservationID, cancelledBy, req.CancellationReason); err != nil {
		if errors.Is(err, reservationRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: reservation id=%d changed concurrently", reservationID)
			return s.resolveStatusConflict(ctx, reservationID)
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	res.Status = domain.StatusCancelled
	s.publishEvent(res, queue.ActionCancelled)

	s.logger.Info("Cancel: successfully cancelled reservation id=%d by %s", reservationID, cancelledBy)
	return nil
}

// Delete физически удаляет бронирование
// Доступно только администраторам; для обычной отмены использовать Cancel
func (s *Service) Delete(ctx context.Context, reservationID int64, userID int64) error {
	s.logger.Info("Delete: deleting reservation id=%d by user=%d", reservationID, userID)

	if err := s.checkAdminAccess(ctx, userID); err != nil {
		s.logger.Warn("Delete: access denied for user=%d to delete reservation id=%d", userID, reservationID)
		return ErrAccessDenied
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Delete: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Delete: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.reservationRepo.Delete(ctx, reservationID); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Delete: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.publishEvent(res, queue.ActionDeleted)

	s.logger.Info("Delete: successfully deleted reservation id=%d", reservationID)
	return nil
}

// Вспомогательные методы

// resolveStatusConflict определяет причину отказа условного UPDATE:
// перечитывает бронирование и возвращает ошибку по его актуальному статусу
func (s *Service) resolveStatusConflict(ctx context.Context, reservationID int64) error {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: resolveStatusConflict - repository error: %v", ErrInternal, err)
	}

	if res.IsCancelled() {
		return ErrAlreadyCancelled
	}
	return ErrInvalidTransition
}

// checkAdminAccess проверяет, что пользователь является активным администратором
func (s *Service) checkAdminAccess(ctx context.Context, userID int64) error {
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkAdminAccess: user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkAdminAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get user: %v", ErrInternal, err)
	}

	if !user.IsActive || !user.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user id=%d is not an active admin", userID)
		return ErrAccessDenied
	}

	return nil
}

// publishEvent отправляет событие жизненного цикла бронирования (best-effort)
// Сбой публикации не откатывает изменение статуса
func (s *Service) publishEvent(res *domain.Reservation, action string) {
	if s.publisher == nil {
		return
	}

	event := queue.ReservationEvent{
		Action:           action,
		ReservationID:    res.ID,
		UserID:           res.UserID,
		ActivityID:       res.ActivityID,
		ScheduleSlot:     string(res.ScheduleSlot),
		OccurrenceDate:   res.OccurrenceDate.Format(domain.DateFormat),
		ParticipantCount: res.ParticipantCount,
		Status:           string(res.Status),
		OccurredAt:       s.timeProvider.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("publishEvent: failed to publish %s event for reservation id=%d: %v", action, res.ID, err)
		}
	}()
}
