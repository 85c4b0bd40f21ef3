// Package types значимые типы-обертки для доменных значений
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSlotLabel возвращается при некорректном формате метки слота
var ErrInvalidSlotLabel = errors.New("types: invalid slot label format")

// SlotLabel метка регулярного слота расписания активности в формате "<день недели> HH:MM",
// например "Monday 18:00". Метка описывает повторяющийся слот, а не конкретную дату.
// Исторические данные каталога содержат испанские названия дней ("Lunes 18:00"),
// поэтому парсер принимает оба словаря.
type SlotLabel string

// Словари названий дней недели (в нижнем регистре)
var weekdayNames = map[string]time.Weekday{
	// English
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	// Spanish (каталог исторически на испанском)
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// NewSlotLabel создает SlotLabel с валидацией формата
func NewSlotLabel(s string) (SlotLabel, error) {
	label := SlotLabel(strings.TrimSpace(s))
	if err := label.Validate(); err != nil {
		return "", err
	}
	return label, nil
}

// Validate проверяет, что метка имеет формат "<день недели> HH:MM"
func (l SlotLabel) Validate() error {
	_, _, _, err := l.parse()
	return err
}

// IsZero проверяет, что метка пустая
func (l SlotLabel) IsZero() bool {
	return strings.TrimSpace(string(l)) == ""
}

// String возвращает строковое представление метки
func (l SlotLabel) String() string {
	return string(l)
}

// Weekday возвращает день недели, закодированный в метке
func (l SlotLabel) Weekday() (time.Weekday, error) {
	wd, _, _, err := l.parse()
	return wd, err
}

// TimeOfDay возвращает час и минуту начала слота
func (l SlotLabel) TimeOfDay() (hour, minute int, err error) {
	_, hour, minute, err = l.parse()
	return hour, minute, err
}

// MatchesDate проверяет, что календарная дата попадает на день недели метки
func (l SlotLabel) MatchesDate(date time.Time) bool {
	wd, _, _, err := l.parse()
	if err != nil {
		return false
	}
	return date.Weekday() == wd
}

// StartOn возвращает момент начала слота в указанную дату
func (l SlotLabel) StartOn(date time.Time) (time.Time, error) {
	_, hour, minute, err := l.parse()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// EqualFold сравнивает две метки без учета регистра
func (l SlotLabel) EqualFold(other SlotLabel) bool {
	return strings.EqualFold(strings.TrimSpace(string(l)), strings.TrimSpace(string(other)))
}

func (l SlotLabel) parse() (time.Weekday, int, int, error) {
	fields := strings.Fields(string(l))
	if len(fields) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: %q, expected \"<weekday> HH:MM\"", ErrInvalidSlotLabel, string(l))
	}

	wd, ok := weekdayNames[strings.ToLower(fields[0])]
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSlotLabel, fields[0])
	}

	parts := strings.Split(fields[1], ":")
	if len(parts) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidSlotLabel, fields[1])
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, fmt.Errorf("%w: invalid hour %q", ErrInvalidSlotLabel, parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, 0, fmt.Errorf("%w: invalid minute %q", ErrInvalidSlotLabel, parts[1])
	}

	return wd, hour, minute, nil
}
