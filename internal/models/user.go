package models

import "time"

// Роли пользователей системы. Финансовый секретарь ведёт учёт взносов,
// обычный участник видит только собственные данные.
const (
	RoleMember             = "member"
	RoleFinancialSecretary = "financial-secretary"
)

// User представляет зарегистрированного пользователя системы.
// Пользователь одновременно является участником (если ему назначена категория)
// и может выступать автором записи о взносе.
type User struct {
	UID          string     // Уникальный идентификатор пользователя (uuid)
	Username     string     // Имя пользователя (уникальное)
	Email        string     // Электронная почта
	Name         string     // Отображаемое имя
	PasswordHash string     // Хэш пароля пользователя
	Role         string     // Роль пользователя: member или financial-secretary
	CategoryID   *int       // Категория членства (nil — без категории)
	Category     *Category  // Загруженная категория (nil, если не назначена)
	CreatedAt    time.Time  // Момент начала членства, отсюда считаются месяцы взносов
}

// MemberView — представление участника для JSON-ответов.
type MemberView struct {
	UID       string        `json:"uid"`
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	Category  *CategoryView `json:"category,omitempty"`
	CreatedAt string        `json:"created_at"`
}

// View конвертирует пользователя в представление для ответа.
func (u User) View() MemberView {
	view := MemberView{
		UID:       u.UID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format("2006-01-02"),
	}
	if u.Category != nil {
		category := u.Category.View()
		view.Category = &category
	}
	return view
}

// DummyRegisterRequest используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Name     string `json:"name" validate:"required"`              // Отображаемое имя
	Password string `json:"password" validate:"required,min=8"`    // Пароль (минимум 8 символов)
}

// DummyLoginRequest используется для приёма данных входа из JSON-запроса.
type DummyLoginRequest struct {
	Username string `json:"username" validate:"required"` // Имя пользователя
	Password string `json:"password" validate:"required"` // Пароль
}
