package models

import "time"

// Contribution представляет запись о взносе участника.
// Поле Date — дата, к которой относится платёж, она отличается от CreatedAt
// (момента внесения записи) и используется во всей арифметике балансов.
type Contribution struct {
	ID            int       // Идентификатор записи
	UserUID       string    // Участник, за которого внесён взнос
	AmountCents   int64     // Сумма взноса в копейках (строго положительная)
	Date          time.Time // Дата платежа
	Notes         *string   // Произвольная заметка (nil, если отсутствует)
	RecordedByUID string    // Пользователь, внёсший запись
	CreatedAt     time.Time // Момент создания записи
}

// ContributionInfo — запись о взносе с раскрытыми именами участника,
// его категории и автора записи. Используется в списках и сводке.
type ContributionInfo struct {
	ID           int     `json:"id"`
	MemberUID    string  `json:"member_uid"`
	MemberName   string  `json:"member_name"`
	CategoryName string  `json:"category_name,omitempty"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	Notes        *string `json:"notes,omitempty"`
	RecorderName string  `json:"recorded_by"`
}

// DummyContribution используется для приёма данных нового взноса из JSON-запроса,
// прежде чем конвертировать их в Contribution. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyContribution struct {
	UserUID string  `json:"user_uid" validate:"required,uuid"`           // Участник
	Amount  float64 `json:"amount" validate:"required,gt=0"`             // Сумма (>0)
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"` // Дата платежа в формате 2006-01-02
	Notes   string  `json:"notes,omitempty" validate:"omitempty"`        // Заметка (опционально)
}

// ContributionFilter — параметры фильтрации списка взносов для секретаря.
type ContributionFilter struct {
	CategoryID *int    // Категория участника (nil — без фильтра)
	UserUID    *string // Конкретный участник (nil — без фильтра)
}
