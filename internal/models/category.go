// Package models содержит доменные структуры приложения учёта членских взносов:
// категории членства, участников, взносы, а также производные отчётные структуры
// (баланс участника и сводка по сборам). Денежные суммы хранятся в копейках (int64),
// во внешние JSON-ответы попадают уже в виде float64.
package models

import "time"

// Category представляет категорию членства с фиксированным ежемесячным взносом.
// Участник без категории обязательств по взносам не имеет.
type Category struct {
	ID              int       // Идентификатор категории
	Name            string    // Название категории
	MonthlyFeeCents int64     // Ежемесячный взнос в копейках (неотрицательный)
	IsActive        bool      // Активна ли категория
	CreatedAt       time.Time // Дата создания записи
}

// CategoryView — представление категории для JSON-ответов.
type CategoryView struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	MonthlyFee float64 `json:"monthly_fee"`
	IsActive   bool    `json:"is_active"`
}

// View конвертирует категорию в представление для ответа.
func (c Category) View() CategoryView {
	return CategoryView{
		ID:         c.ID,
		Name:       c.Name,
		MonthlyFee: CentsToAmount(c.MonthlyFeeCents),
		IsActive:   c.IsActive,
	}
}
