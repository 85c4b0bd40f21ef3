package activityservice

import "github.com/m04kA/SportHub-ReservationService/pkg/types"

// Activity модель активности из каталога ActivityService
type Activity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	MaxCapacity int      `json:"max_capacity"`
	Schedule    []string `json:"schedule"` // метки слотов, например ["Monday 18:00", "Wednesday 18:00"]
	Duration    int      `json:"duration"` // минуты
	Price       float64  `json:"price"`
	IsActive    bool     `json:"is_active"`
}

// HasSlot проверяет, что метка слота входит в расписание активности
// Сравнение без учета регистра: каталог исторически содержит метки в разном регистре
func (a *Activity) HasSlot(slot types.SlotLabel) bool {
	for _, s := range a.Schedule {
		if slot.EqualFold(types.SlotLabel(s)) {
			return true
		}
	}
	return false
}

// activityResponse обертка ответа ActivityService
type activityResponse struct {
	Activity Activity `json:"activity"`
}

// ErrorResponse модель ошибки от ActivityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
