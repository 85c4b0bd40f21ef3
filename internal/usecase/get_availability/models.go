package get_availability

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// Request модель запроса на расчет доступной ёмкости
type Request struct {
	ActivityID   int64           // ID активности
	ScheduleSlot types.SlotLabel // Метка слота расписания (например, "Friday 18:00")
	Date         time.Time       // Дата, к которой относится слот (без времени)
}

// Response модель ответа с доступной ёмкостью корзины
// Возвращает идентичность корзины целиком: значение может устареть к моменту
// записи, это ожидаемо - финальную проверку делает писатель в транзакции
type Response struct {
	ActivityID     int64           // ID активности
	ScheduleSlot   types.SlotLabel // Метка слота
	Date           time.Time       // Дата
	MaxCapacity    int             // Максимальная ёмкость корзины
	ReservedSpots  int             // Занято мест (pending + confirmed)
	RemainingSpots int             // Свободно мест (никогда не отрицательное)
}
