package get_activity_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SportHub-ReservationService/internal/api/handlers"
	policyService "github.com/m04kA/SportHub-ReservationService/internal/service/policy"
)

const (
	msgInvalidActivityID = "некорректный ID активности"
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

// Handle GET /api/v1/activities/{activityId}/policy
// Публичный маршрут: клиенты показывают ограничения бронирования до создания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем activityId из URL
	vars := mux.Vars(r)
	activityIDStr := vars["activityId"]

	activityID, err := strconv.ParseInt(activityIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/policy - Invalid activity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	// Получаем действующую политику (дефолты, если политика не задана)
	policy, err := h.service.GetEffective(r.Context(), activityID)
	if err != nil {
		switch {
		case errors.Is(err, policyService.ErrInvalidInput):
			h.logger.Warn("GET /activities/{id}/policy - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidActivityID)

		default:
			h.logger.Error("GET /activities/{id}/policy - Failed to get policy: activity_id=%d, error=%v",
				activityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /activities/{id}/policy - Policy retrieved successfully: activity_id=%d, is_default=%t",
		activityID, policy.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
