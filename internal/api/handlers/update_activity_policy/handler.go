package update_activity_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SportHub-ReservationService/internal/api/handlers"
	"github.com/m04kA/SportHub-ReservationService/internal/api/middleware"
	policyService "github.com/m04kA/SportHub-ReservationService/internal/service/policy"
)

const (
	msgInvalidActivityID  = "некорректный ID активности"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidParams      = "некорректные параметры политики"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/activities/{activityId}/policy
// Также обслуживает PUT /api/v1/policy - без activityId обновляется глобальная политика
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем activityId из URL (отсутствует для глобальной политики)
	var activityID *int64
	if activityIDStr, exists := mux.Vars(r)["activityId"]; exists {
		id, err := strconv.ParseInt(activityIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("PUT /activities/{id}/policy - Invalid activity ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidActivityID)
			return
		}
		activityID = &id
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /activities/{id}/policy - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /activities/{id}/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель сервиса
	serviceReq := req.ToServiceRequest(userID, activityID)

	// Создаем или обновляем политику (сервис сам проверит права администратора)
	policy, err := h.service.Upsert(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, policyService.ErrAccessDenied):
			h.logger.Warn("PUT /activities/{id}/policy - Access denied: activity_id=%v, user_id=%d",
				activityID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, policyService.ErrInvalidInput):
			h.logger.Warn("PUT /activities/{id}/policy - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("PUT /activities/{id}/policy - Failed to upsert policy: activity_id=%v, error=%v",
				activityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /activities/{id}/policy - Policy upserted successfully: policy_id=%d, activity_id=%v, user_id=%d",
		policy.ID, activityID, userID)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
