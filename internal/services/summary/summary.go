// Package services содержит построение сводки по сборам за отчётный период:
// собранные суммы, общий долг, месячная цель, разбивка по категориям
// и последние взносы. Сводка вычисляется по запросу и нигде не сохраняется.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-dues/internal/lib/month"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// recentLimit — сколько последних взносов попадает в сводку.
const recentLimit = 10

// SummaryRepository определяет методы хранилища, нужные для построения сводки.
type SummaryRepository interface {
	// SumContributionsInRange возвращает сумму всех взносов за период в копейках.
	SumContributionsInRange(ctx context.Context, from, to time.Time) (int64, error)
	// SumAllContributions возвращает сумму всех взносов за всё время в копейках.
	SumAllContributions(ctx context.Context) (int64, error)
	// MonthlyTargetCents возвращает ожидаемый сбор за один месяц в копейках.
	MonthlyTargetCents(ctx context.Context) (int64, error)
	// CountMembersWithCategory подсчитывает участников с категорией.
	CountMembersWithCategory(ctx context.Context) (int, error)
	// ListMembersWithCategory возвращает всех участников с категорией.
	ListMembersWithCategory(ctx context.Context) ([]*models.User, error)
	// ListActiveCategories возвращает все активные категории.
	ListActiveCategories(ctx context.Context) ([]*models.Category, error)
	// SumContributionsInRangeByCategory возвращает сумму взносов категории за период.
	SumContributionsInRangeByCategory(ctx context.Context, categoryID int, from, to time.Time) (int64, error)
	// ListRecentContributions возвращает limit последних взносов.
	ListRecentContributions(ctx context.Context, limit int) ([]*models.ContributionInfo, error)
}

// BalanceCalculator описывает расчёт баланса участника, используемый сводкой.
type BalanceCalculator interface {
	Compute(ctx context.Context, member *models.User, asOf *time.Time) (*models.BalanceReport, error)
}

// Cache описывает методы для кэширования сводки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// summaryTTL — время жизни кешированной сводки.
const summaryTTL = 5 * time.Minute

// SummaryService строит сводку по сборам, опираясь на хранилище
// и расчёт баланса участников.
type SummaryService struct {
	repo    SummaryRepository
	balance BalanceCalculator
	cache   Cache
	log     *slog.Logger
	now     func() time.Time
}

// NewSummaryService создает новый экземпляр SummaryService.
func NewSummaryService(repo SummaryRepository, balance BalanceCalculator, cache Cache, log *slog.Logger) *SummaryService {
	return &SummaryService{
		repo:    repo,
		balance: balance,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// Compute строит сводку за период [start, end]. Если границы не заданы,
// используется текущий календарный месяц. Общий долг считается на момент
// построения отчёта и от периода не зависит.
func (s *SummaryService) Compute(ctx context.Context, start, end *time.Time) (*models.SummaryReport, error) {
	now := s.now()
	startDate := month.StartOf(now)
	endDate := month.EndOf(now)
	if start != nil {
		startDate = *start
	}
	if end != nil {
		endDate = *end
	}

	cacheKey := fmt.Sprintf("summary:%s:%s",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	var cached *models.SummaryReport
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read summary from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	collectedCents, err := s.repo.SumContributionsInRange(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum collected: %w", err)
	}

	allTimeCents, err := s.repo.SumAllContributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum all time collected: %w", err)
	}

	targetCents, err := s.repo.MonthlyTargetCents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly target: %w", err)
	}

	totalMembers, err := s.repo.CountMembersWithCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	members, err := s.repo.ListMembersWithCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	// Долг каждого участника считается однократно, затем группируется по категориям.
	var totalOutstanding float64
	outstandingByCategory := make(map[int]float64)
	for _, member := range members {
		report, err := s.balance.Compute(ctx, member, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for member %s: %w", member.UID, err)
		}
		totalOutstanding += report.OutstandingBalance
		if member.CategoryID != nil {
			outstandingByCategory[*member.CategoryID] += report.OutstandingBalance
		}
	}

	membersByCategory := make(map[int]int)
	for _, member := range members {
		if member.CategoryID != nil {
			membersByCategory[*member.CategoryID]++
		}
	}

	categories, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	byCategory := make([]models.CategorySummary, 0, len(categories))
	for _, category := range categories {
		categoryCollected, err := s.repo.SumContributionsInRangeByCategory(ctx, category.ID, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("failed to sum collected for category %d: %w", category.ID, err)
		}
		byCategory = append(byCategory, models.CategorySummary{
			Category:         category.Name,
			TotalMembers:     membersByCategory[category.ID],
			TotalCollected:   models.CentsToAmount(categoryCollected),
			TotalOutstanding: outstandingByCategory[category.ID],
			MonthlyFee:       models.CentsToAmount(category.MonthlyFeeCents),
		})
	}

	recent, err := s.repo.ListRecentContributions(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent contributions: %w", err)
	}
	recentInfos := make([]models.ContributionInfo, 0, len(recent))
	for _, info := range recent {
		recentInfos = append(recentInfos, *info)
	}

	var collectionRate float64
	if targetCents > 0 {
		collectionRate = models.CentsToAmount(collectedCents) / models.CentsToAmount(targetCents) * 100
	}

	report := &models.SummaryReport{
		TotalCollected:        models.CentsToAmount(collectedCents),
		TotalOutstanding:      totalOutstanding,
		TotalAllTimeCollected: models.CentsToAmount(allTimeCents),
		MonthlyTarget:         models.CentsToAmount(targetCents),
		CollectionRate:        collectionRate,
		TotalMembers:          totalMembers,
		ByCategory:            byCategory,
		RecentContributions:   recentInfos,
		Period: models.Period{
			Start: startDate.Format("2006-01-02"),
			End:   endDate.Format("2006-01-02"),
		},
	}

	if err := s.cache.Set(cacheKey, report, summaryTTL); err != nil {
		s.log.Warn("failed to cache summary report", slog.String("key", cacheKey), sl.Err(err))
	}

	return report, nil
}
