package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SportHub-ReservationService/internal/api/handlers"
	"github.com/m04kA/SportHub-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/SportHub-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSlotOrDate    = "некорректный формат слота или даты, ожидается scheduleSlot='<день недели> HH:MM' и date=YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgActivityNotFound     = "активность не найдена"
	msgActivityUnavailable  = "активность не принимает бронирования"
	msgInvalidSlot          = "слот не входит в расписание активности"
	msgInvalidDate          = "некорректная дата бронирования"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook        = "слишком поздно для бронирования этого слота"
	msgInvalidParticipants  = "некорректное количество участников"
	msgCapacityExceeded     = "недостаточно свободных мест"
	msgDuplicateReservation = "у вас уже есть активное бронирование этого слота"
	msgUnauthorized         = "пользователь не найден или деактивирован"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом слота и даты)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotOrDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations - Capacity exceeded: user_id=%d, activity_id=%d", userID, req.ActivityID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, createReservation.ErrDuplicateReservation):
			h.logger.Warn("POST /reservations - Duplicate reservation: user_id=%d, activity_id=%d", userID, req.ActivityID)
			handlers.RespondConflict(w, msgDuplicateReservation)

		case errors.Is(err, createReservation.ErrActivityNotFound):
			h.logger.Warn("POST /reservations - Activity not found: activity_id=%d", req.ActivityID)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, createReservation.ErrActivityUnavailable):
			h.logger.Warn("POST /reservations - Activity unavailable: activity_id=%d", req.ActivityID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgActivityUnavailable)

		case errors.Is(err, createReservation.ErrUnauthorized):
			h.logger.Warn("POST /reservations - Unauthorized user: user_id=%d", userID)
			handlers.RespondUnauthorized(w, msgUnauthorized)

		case errors.Is(err, createReservation.ErrInvalidSlot):
			h.logger.Warn("POST /reservations - Invalid slot: user_id=%d, activity_id=%d, slot=%s",
				userID, req.ActivityID, req.ScheduleSlot)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: user_id=%d, activity_id=%d", userID, req.ActivityID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createReservation.ErrDateTooFarInFuture):
			h.logger.Warn("POST /reservations - Date too far in future: user_id=%d, activity_id=%d", userID, req.ActivityID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createReservation.ErrTooLateToBook):
			h.logger.Warn("POST /reservations - Too late to book: user_id=%d, activity_id=%d", userID, req.ActivityID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createReservation.ErrInvalidParticipantCount):
			h.logger.Warn("POST /reservations - Invalid participant count: user_id=%d, count=%d",
				userID, req.ParticipantCount)
			handlers.RespondBadRequest(w, msgInvalidParticipants)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, activity_id=%d, error=%v",
				userID, req.ActivityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, activity_id=%d",
		result.Reservation.ID, userID, req.ActivityID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
