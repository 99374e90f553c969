// Package services содержит сборку данных главной страницы: баланс и последние
// взносы пользователя, а для финансового секретаря — дополнительно сводку,
// последние взносы всех участников и список участников без взноса в текущем месяце.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-dues/internal/lib/month"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// ownRecentLimit — сколько собственных взносов видит участник на главной странице.
const ownRecentLimit = 5

// adminRecentLimit — сколько последних взносов всех участников видит секретарь.
const adminRecentLimit = 10

// DashboardRepository определяет методы хранилища для главной страницы.
type DashboardRepository interface {
	// GetUserByUID возвращает пользователя с его категорией.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// ListContributionsByUser возвращает взносы участника с пагинацией.
	ListContributionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.ContributionInfo, error)
	// ListRecentContributions возвращает limit последних взносов всех участников.
	ListRecentContributions(ctx context.Context, limit int) ([]*models.ContributionInfo, error)
	// ListMembersWithoutContribution возвращает участников без взноса в диапазоне дат.
	ListMembersWithoutContribution(ctx context.Context, from, to time.Time) ([]*models.User, error)
}

// BalanceCalculator описывает расчёт баланса участника.
type BalanceCalculator interface {
	Compute(ctx context.Context, member *models.User, asOf *time.Time) (*models.BalanceReport, error)
}

// SummaryAggregator описывает построение сводки по сборам.
type SummaryAggregator interface {
	Compute(ctx context.Context, start, end *time.Time) (*models.SummaryReport, error)
}

// DashboardService собирает данные главной страницы пользователя.
type DashboardService struct {
	repo    DashboardRepository
	balance BalanceCalculator
	summary SummaryAggregator
	log     *slog.Logger
	now     func() time.Time
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(repo DashboardRepository, balance BalanceCalculator, summary SummaryAggregator, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo:    repo,
		balance: balance,
		summary: summary,
		log:     log,
		now:     time.Now,
	}
}

// Compute строит отчёт главной страницы для пользователя userUID.
// Административный блок заполняется только для финансового секретаря —
// проверка роли остаётся за вызывающей стороной, сюда передаётся готовый признак.
func (s *DashboardService) Compute(ctx context.Context, userUID string, isSecretary bool) (*models.DashboardReport, error) {
	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	balance, err := s.balance.Compute(ctx, user, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	recent, err := s.repo.ListContributionsByUser(ctx, userUID, ownRecentLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent contributions: %w", err)
	}

	report := &models.DashboardReport{
		User:                user.View(),
		Balance:             *balance,
		RecentContributions: contributionInfos(recent),
	}

	if !isSecretary {
		return report, nil
	}

	summary, err := s.summary.Compute(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	allRecent, err := s.repo.ListRecentContributions(ctx, adminRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list all recent contributions: %w", err)
	}

	now := s.now()
	behind, err := s.repo.ListMembersWithoutContribution(ctx, month.StartOf(now), month.EndOf(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list members without contribution: %w", err)
	}
	behindViews := make([]models.MemberView, 0, len(behind))
	for _, member := range behind {
		behindViews = append(behindViews, member.View())
	}

	report.Admin = &models.AdminDashboard{
		Summary:                    *summary,
		AllRecentContributions:     contributionInfos(allRecent),
		MembersWithoutContribution: behindViews,
		CurrentMonth:               now.Format("January 2006"),
	}

	return report, nil
}

func contributionInfos(list []*models.ContributionInfo) []models.ContributionInfo {
	result := make([]models.ContributionInfo, 0, len(list))
	for _, info := range list {
		result = append(result, *info)
	}
	return result
}
