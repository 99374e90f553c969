// Package services содержит расчёт состояния взносов участника.
// Отчёт строится на заданную дату: сколько месяцев обязательств накопилось,
// сколько ожидается, сколько оплачено и каков долг. Вычисление чистое,
// ничего не изменяет и при одинаковых входных данных даёт одинаковый результат.
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

// BalanceRepository определяет методы хранилища, нужные для расчёта баланса.
type BalanceRepository interface {
	// SumContributionsByUser возвращает сумму взносов участника в копейках
	// с датой платежа не позже upTo.
	SumContributionsByUser(ctx context.Context, userUID string, upTo time.Time) (int64, error)
	// ListMembersWithCategory возвращает всех участников с категорией.
	ListMembersWithCategory(ctx context.Context) ([]*models.User, error)
	// GetUserByUID возвращает пользователя с его категорией.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// Cache описывает методы для кэширования отчётов.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// reportTTL — время жизни кешированного отчёта. Короткое, поскольку точная
// инвалидация возможна только для отчётов на текущую дату.
const reportTTL = 5 * time.Minute

// BalanceService реализует расчёт состояния взносов участника.
type BalanceService struct {
	repo  BalanceRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewBalanceService создает новый экземпляр BalanceService.
func NewBalanceService(repo BalanceRepository, cache Cache, log *slog.Logger) *BalanceService {
	return &BalanceService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Compute строит отчёт о состоянии взносов участника на дату asOf.
// Если asOf == nil, используется текущая дата. Участник без категории
// получает нулевой отчёт со статусом no_category.
func (s *BalanceService) Compute(ctx context.Context, member *models.User, asOf *time.Time) (*models.BalanceReport, error) {
	asOfDate := s.now()
	if asOf != nil {
		asOfDate = *asOf
	}

	if member.Category == nil {
		return &models.BalanceReport{
			IsUpToDate: true,
			Status:     models.StatusNoCategory,
			AsOfDate:   asOfDate.Format("2006-01-02"),
		}, nil
	}

	cacheKey := fmt.Sprintf("balance:%s:%s", member.UID, asOfDate.Format("2006-01-02"))
	var cached *models.BalanceReport
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read balance from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	feeCents := member.Category.MonthlyFeeCents
	monthsDue := month.Due(member.CreatedAt, asOfDate)
	expectedCents := int64(monthsDue) * feeCents

	paidCents, err := s.repo.SumContributionsByUser(ctx, member.UID, asOfDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum contributions: %w", err)
	}

	outstandingCents := expectedCents - paidCents
	if outstandingCents < 0 {
		outstandingCents = 0
	}

	report := &models.BalanceReport{
		MonthlyFee:         models.CentsToAmount(feeCents),
		MonthsDue:          monthsDue,
		TotalExpected:      models.CentsToAmount(expectedCents),
		TotalPaid:          models.CentsToAmount(paidCents),
		OutstandingBalance: models.CentsToAmount(outstandingCents),
		MonthsBehind:       monthsBehind(outstandingCents, feeCents),
		IsUpToDate:         outstandingCents == 0,
		Status:             paymentStatus(outstandingCents, feeCents),
		AsOfDate:           asOfDate.Format("2006-01-02"),
	}

	if err := s.cache.Set(cacheKey, report, reportTTL); err != nil {
		s.log.Warn("failed to cache balance report", slog.String("key", cacheKey), sl.Err(err))
	}

	return report, nil
}

// ComputeForUID строит отчёт о состоянии взносов участника по его UID.
func (s *BalanceService) ComputeForUID(ctx context.Context, userUID string, asOf *time.Time) (*models.BalanceReport, error) {
	member, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.Compute(ctx, member, asOf)
}

// ListMembersWithBalances возвращает всех участников с категорией
// вместе с их отчётами о балансе на текущую дату.
func (s *BalanceService) ListMembersWithBalances(ctx context.Context) ([]models.MemberBalance, error) {
	members, err := s.repo.ListMembersWithCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	result := make([]models.MemberBalance, 0, len(members))
	for _, member := range members {
		report, err := s.Compute(ctx, member, nil)
		if err != nil {
			return nil, err
		}
		result = append(result, models.MemberBalance{
			Member:  member.View(),
			Balance: *report,
		})
	}
	return result, nil
}

// monthsBehind считает, на сколько месяцев отстаёт оплата: ceil(долг / взнос).
// Нулевой взнос означает отсутствие обязательств, тогда результат 0.
func monthsBehind(outstandingCents, feeCents int64) int {
	if outstandingCents <= 0 || feeCents <= 0 {
		return 0
	}
	return int((outstandingCents + feeCents - 1) / feeCents)
}

// paymentStatus классифицирует состояние оплаты. Порядок проверок важен:
// нулевой долг, долг в пределах одного взноса, всё остальное.
func paymentStatus(outstandingCents, feeCents int64) string {
	if outstandingCents == 0 {
		return models.StatusUpToDate
	}
	if outstandingCents <= feeCents {
		return models.StatusBehindOneMonth
	}
	return models.StatusSignificantlyBehind
}
