package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SportHub-ReservationService/internal/api/handlers"
	getAvailability "github.com/m04kA/SportHub-ReservationService/internal/usecase/get_availability"
)

const (
	msgInvalidActivityID = "некорректный ID активности"
	msgMissingSlot       = "метка слота обязательна"
	msgMissingDate       = "дата обязательна"
	msgInvalidParams     = "некорректный формат слота или даты, ожидается slot='<день недели> HH:MM' и date=YYYY-MM-DD"
	msgActivityNotFound  = "активность не найдена"
	msgInvalidSlot       = "слот не входит в расписание активности"
	msgInvalidDate       = "некорректная дата"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/activities/{activityId}/availability
// Query params: slot (required, "<день недели> HH:MM"), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем activityId из URL
	activityIDStr := vars["activityId"]
	activityID, err := strconv.ParseInt(activityIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid activity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	// Извлекаем slot из query параметров
	slotStr := r.URL.Query().Get("slot")
	if slotStr == "" {
		h.logger.Warn("GET /activities/{id}/availability - Missing slot")
		handlers.RespondBadRequest(w, msgMissingSlot)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /activities/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом слота и даты)
	useCaseReq, err := ToUseCaseRequest(activityID, slotStr, dateStr)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, getAvailability.ErrActivityNotFound):
			h.logger.Warn("GET /activities/{id}/availability - Activity not found: activity_id=%d", activityID)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, getAvailability.ErrInvalidSlot):
			h.logger.Warn("GET /activities/{id}/availability - Slot not in schedule: activity_id=%d, slot=%s",
				activityID, slotStr)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /activities/{id}/availability - Invalid date: activity_id=%d, date=%s",
				activityID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /activities/{id}/availability - Date too far in future: activity_id=%d, date=%s",
				activityID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /activities/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /activities/{id}/availability - Failed to get availability: activity_id=%d, error=%v",
				activityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /activities/{id}/availability - Availability retrieved successfully: activity_id=%d, slot=%s, date=%s, remaining=%d",
		activityID, slotStr, dateStr, result.RemainingSpots)
	handlers.RespondJSON(w, http.StatusOK, response)
}
