package models

// MemberBalance — участник вместе с его отчётом о балансе.
// Используется в административном списке участников.
type MemberBalance struct {
	Member  MemberView    `json:"member"`
	Balance BalanceReport `json:"balance"`
}

// DashboardReport — данные главной страницы пользователя.
// Блок Admin заполняется только для финансового секретаря.
type DashboardReport struct {
	User                MemberView         `json:"user"`
	Balance             BalanceReport      `json:"balance"`
	RecentContributions []ContributionInfo `json:"recent_contributions"`
	Admin               *AdminDashboard    `json:"admin,omitempty"`
}

// AdminDashboard — административный блок главной страницы.
type AdminDashboard struct {
	Summary                    SummaryReport      `json:"summary"`
	AllRecentContributions     []ContributionInfo `json:"all_recent_contributions"`
	MembersWithoutContribution []MemberView       `json:"members_without_contribution"`
	CurrentMonth               string             `json:"current_month"`
}
