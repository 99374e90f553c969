package models

import "math"

// CentsToAmount конвертирует сумму из копеек в денежные единицы для JSON-ответов.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents конвертирует сумму из денежных единиц в копейки.
// Округление до ближайшей копейки защищает от двоичной погрешности float64.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
