// Package month содержит календарную арифметику для расчёта месяцев обязательств.
// Обязательства считаются по календарным месяцам: месяц вступления и месяц отчётной
// даты учитываются целиком независимо от дня месяца.
package month

import (
	"time"
)

// Due считает количество месяцев обязательств участника, вступившего createdAt,
// на дату asOf включительно. Отсчёт идёт с первого числа месяца вступления.
// Если месяц вступления начинается позже asOf, обязательств ещё нет и результат 0.
func Due(createdAt, asOf time.Time) int {
	start := StartOf(createdAt)
	if start.After(asOf) {
		return 0
	}

	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	return months + 1
}

// StartOf возвращает первое число месяца даты t.
func StartOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOf возвращает последнее число месяца даты t.
func EndOf(t time.Time) time.Time {
	return StartOf(t).AddDate(0, 1, -1)
}
