package models

// Статусы оплаты участника. Порядок проверки важен: сначала нулевой долг,
// затем долг в пределах одного взноса, затем всё остальное.
const (
	StatusUpToDate            = "up_to_date"
	StatusBehindOneMonth      = "behind_one_month"
	StatusSignificantlyBehind = "significantly_behind"
	StatusNoCategory          = "no_category"
)

// BalanceReport — состояние взносов участника на заданную дату.
// Отчёт вычисляется по запросу и нигде не сохраняется.
type BalanceReport struct {
	MonthlyFee         float64 `json:"monthly_fee"`         // Ежемесячный взнос категории
	MonthsDue          int     `json:"months_due"`          // Сколько месяцев обязательств накопилось
	TotalExpected      float64 `json:"total_expected"`      // Ожидаемая сумма за все месяцы
	TotalPaid          float64 `json:"total_paid"`          // Сумма взносов с датой не позже as_of
	OutstandingBalance float64 `json:"outstanding_balance"` // Долг, не бывает отрицательным
	MonthsBehind       int     `json:"months_behind"`       // На сколько месяцев отстаёт оплата
	IsUpToDate         bool    `json:"is_up_to_date"`       // Признак отсутствия долга
	Status             string  `json:"status"`              // Классификация состояния
	AsOfDate           string  `json:"as_of_date"`          // Дата, на которую построен отчёт
}
