package create_reservation

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID           int64           // ID пользователя из заголовка аутентификации
	ActivityID       int64           // ID активности
	ScheduleSlot     types.SlotLabel // Метка слота расписания (например, "Friday 18:00")
	Date             time.Time       // Дата, к которой относится слот (без времени)
	ParticipantCount int             // Количество участников (мест)
	Notes            *string         // Произвольный комментарий пользователя
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
