package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	userClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SportHub-ReservationService/internal/service/policy/models"
)

// Service сервис для работы с политиками бронирования
type Service struct {
	policyRepo PolicyRepository
	userClient UserServiceClient
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	userClient UserServiceClient,
	logger Logger,
) *Service {
	return &Service{
		policyRepo: policyRepo,
		userClient: userClient,
		logger:     logger,
	}
}

// GetEffective получает действующую политику для активности
// Публичный метод - клиенты используют его, чтобы показать ограничения до бронирования
// Приоритет: политика активности > глобальная политика > платформенные дефолты
func (s *Service) GetEffective(ctx context.Context, activityID int64) (*models.EffectivePolicyResponse, error) {
	s.logger.Info("GetEffective: fetching policy for activity=%d", activityID)

	if activityID <= 0 {
		return nil, fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}

	policy, err := s.policyRepo.GetEffective(ctx, activityID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetEffective: no policy for activity=%d, using defaults", activityID)
			return &models.EffectivePolicyResponse{
				ActivityID:       activityID,
				MinNoticeMinutes: domain.DefaultMinNoticeMinutes,
				MaxAdvanceDays:   domain.DefaultMaxAdvanceDays,
				IsDefault:        true,
			}, nil
		}
		s.logger.Error("GetEffective: repository error for activity=%d: %v", activityID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEffective: successfully fetched policy id=%d for activity=%d (level: %s)",
		policy.ID, activityID, s.getPolicyLevel(policy))
	return &models.EffectivePolicyResponse{
		ActivityID:       activityID,
		MinNoticeMinutes: policy.MinNoticeMinutes,
		MaxAdvanceDays:   policy.MaxAdvanceDays,
		IsDefault:        false,
	}, nil
}

// Upsert создает или обновляет политику бронирования
// Доступно только администраторам
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: upserting policy for activity=%v by user=%d", req.ActivityID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validatePolicyData(req.MinNoticeMinutes, req.MaxAdvanceDays); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}
	if req.ActivityID != nil && *req.ActivityID <= 0 {
		return nil, fmt.Errorf("%w: activityId must be positive", ErrInvalidInput)
	}

	// 2. Проверяем права доступа (только администратор)
	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("Upsert: access denied for user=%d", req.UserID)
		return nil, err
	}

	// 3. Создаем или обновляем политику
	policy, err := s.policyRepo.Upsert(ctx, req.ToDomainPolicy())
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully upserted policy id=%d", policy.ID)
	return models.FromDomainPolicy(policy), nil
}

// Delete удаляет политику активности (активность возвращается к глобальной политике)
// Доступно только администраторам
func (s *Service) Delete(ctx context.Context, req *models.DeletePolicyRequest) error {
	s.logger.Info("Delete: deleting policy for activity=%v by user=%d", req.ActivityID, req.UserID)

	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("Delete: access denied for user=%d", req.UserID)
		return err
	}

	if err := s.policyRepo.Delete(ctx, req.ActivityID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Delete: policy not found for activity=%v", req.ActivityID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted policy for activity=%v", req.ActivityID)
	return nil
}

// Вспомогательные методы

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

// validatePolicyData валидирует параметры политики
func (s *Service) validatePolicyData(minNotice, maxAdvance int) error {
	// Проверяем minNoticeMinutes
	if minNotice < domain.MinNoticeMinutesLowerBound || minNotice > domain.MinNoticeMinutesUpperBound {
		return fmt.Errorf("%w: minNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinNoticeMinutesLowerBound, domain.MinNoticeMinutesUpperBound)
	}

	// Проверяем maxAdvanceDays
	if maxAdvance < domain.MaxAdvanceDaysLowerBound || maxAdvance > domain.MaxAdvanceDaysUpperBound {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MaxAdvanceDaysLowerBound, domain.MaxAdvanceDaysUpperBound)
	}

	return nil
}

// getPolicyLevel возвращает строковое представление уровня политики для логирования
func (s *Service) getPolicyLevel(p *domain.ReservationPolicy) string {
	if p.IsDefault() {
		return "global"
	}
	return "activity"
}
