package models

// SummaryReport — сводка по сборам за отчётный период.
// total_collected ограничен периодом, total_outstanding — величина долга
// на момент построения отчёта и от периода не зависит.
type SummaryReport struct {
	TotalCollected        float64           `json:"total_collected"`          // Собрано за период
	TotalOutstanding      float64           `json:"total_outstanding"`        // Суммарный долг всех участников с категорией
	TotalAllTimeCollected float64           `json:"total_all_time_collected"` // Собрано за всё время
	MonthlyTarget         float64           `json:"monthly_target"`           // Ожидаемый сбор за один месяц
	CollectionRate        float64           `json:"collection_rate"`          // Процент сбора за период от месячной цели
	TotalMembers          int               `json:"total_members"`            // Количество участников с категорией
	ByCategory            []CategorySummary `json:"by_category"`              // Разбивка по категориям
	RecentContributions   []ContributionInfo `json:"recent_contributions"`    // Последние взносы
	Period                Period            `json:"period"`                   // Границы отчётного периода
}

// CategorySummary — сводка по одной категории членства.
type CategorySummary struct {
	Category         string  `json:"category"`          // Название категории
	TotalMembers     int     `json:"total_members"`     // Участников в категории
	TotalCollected   float64 `json:"total_collected"`   // Собрано за период по категории
	TotalOutstanding float64 `json:"total_outstanding"` // Суммарный долг участников категории
	MonthlyFee       float64 `json:"monthly_fee"`       // Ежемесячный взнос категории
}

// Period — границы отчётного периода в формате 2006-01-02.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DummySummaryFilter используется для приёма границ периода из параметров запроса.
type DummySummaryFilter struct {
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"` // Начало периода
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`   // Конец периода
}
