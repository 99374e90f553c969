package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-dues/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SumContributionsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) SumAllContributions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) MonthlyTargetCents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) CountMembersWithCategory(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListMembersWithCategory(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *RepoMock) ListActiveCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}
func (m *RepoMock) SumContributionsInRangeByCategory(ctx context.Context, categoryID int, from, to time.Time) (int64, error) {
	args := m.Called(ctx, categoryID, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListRecentContributions(ctx context.Context, limit int) ([]*models.ContributionInfo, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContributionInfo), args.Error(1)
}

type BalanceMock struct{ mock.Mock }

func (m *BalanceMock) Compute(ctx context.Context, member *models.User, asOf *time.Time) (*models.BalanceReport, error) {
	args := m.Called(ctx, member, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceReport), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func memberWithCategory(uid string, categoryID int, feeCents int64) *models.User {
	return &models.User{
		UID:        uid,
		Name:       "Member " + uid,
		CategoryID: &categoryID,
		Category: &models.Category{
			ID:              categoryID,
			MonthlyFeeCents: feeCents,
			IsActive:        true,
		},
		CreatedAt: date(2024, time.January, 1),
	}
}

func newService(repo *RepoMock, balance *BalanceMock, cache *CacheMock) *SummaryService {
	s := NewSummaryService(repo, balance, cache, newNoopLogger())
	s.now = func() time.Time { return date(2024, time.February, 15) }
	return s
}

func passthroughCache(c *CacheMock) {
	c.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestCompute_DefaultsToCurrentMonth(t *testing.T) {
	repo := new(RepoMock)
	balance := new(BalanceMock)
	cache := new(CacheMock)
	passthroughCache(cache)
	s := newService(repo, balance, cache)

	monthStart := date(2024, time.February, 1)
	monthEnd := date(2024, time.February, 29)

	repo.On("SumContributionsInRange", mock.Anything, monthStart, monthEnd).Return(int64(0), nil)
	repo.On("SumAllContributions", mock.Anything).Return(int64(0), nil)
	repo.On("MonthlyTargetCents", mock.Anything).Return(int64(0), nil)
	repo.On("CountMembersWithCategory", mock.Anything).Return(0, nil)
	repo.On("ListMembersWithCategory", mock.Anything).Return([]*models.User{}, nil)
	repo.On("ListActiveCategories", mock.Anything).Return([]*models.Category{}, nil)
	repo.On("ListRecentContributions", mock.Anything, 10).Return([]*models.ContributionInfo{}, nil)

	report, err := s.Compute(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", report.Period.Start)
	assert.Equal(t, "2024-02-29", report.Period.End)
	// Нулевая месячная цель не приводит к ошибке или NaN.
	assert.Equal(t, 0.0, report.CollectionRate)
	repo.AssertExpectations(t)
}

func TestCompute_AggregatesByCategory(t *testing.T) {
	repo := new(RepoMock)
	balance := new(BalanceMock)
	cache := new(CacheMock)
	passthroughCache(cache)
	s := newService(repo, balance, cache)

	adults := []*models.User{
		memberWithCategory("uid-1", 1, 5000),
		memberWithCategory("uid-2", 1, 5000),
	}
	youth := memberWithCategory("uid-3", 2, 2500)
	members := append(adults, youth)

	start := date(2024, time.February, 1)
	end := date(2024, time.February, 29)

	repo.On("SumContributionsInRange", mock.Anything, start, end).Return(int64(12500), nil)
	repo.On("SumAllContributions", mock.Anything).Return(int64(40000), nil)
	repo.On("MonthlyTargetCents", mock.Anything).Return(int64(12500), nil)
	repo.On("CountMembersWithCategory", mock.Anything).Return(3, nil)
	repo.On("ListMembersWithCategory", mock.Anything).Return(members, nil)
	repo.On("ListActiveCategories", mock.Anything).Return([]*models.Category{
		{ID: 1, Name: "Adult", MonthlyFeeCents: 5000, IsActive: true},
		{ID: 2, Name: "Youth", MonthlyFeeCents: 2500, IsActive: true},
	}, nil)
	repo.On("SumContributionsInRangeByCategory", mock.Anything, 1, start, end).Return(int64(10000), nil)
	repo.On("SumContributionsInRangeByCategory", mock.Anything, 2, start, end).Return(int64(2500), nil)
	repo.On("ListRecentContributions", mock.Anything, 10).Return([]*models.ContributionInfo{
		{ID: 7, MemberName: "Member uid-1", Amount: 50, Date: "2024-02-10"},
	}, nil)

	balance.On("Compute", mock.Anything, adults[0], (*time.Time)(nil)).
		Return(&models.BalanceReport{OutstandingBalance: 50}, nil)
	balance.On("Compute", mock.Anything, adults[1], (*time.Time)(nil)).
		Return(&models.BalanceReport{OutstandingBalance: 0}, nil)
	balance.On("Compute", mock.Anything, youth, (*time.Time)(nil)).
		Return(&models.BalanceReport{OutstandingBalance: 25}, nil)

	report, err := s.Compute(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 125.0, report.TotalCollected)
	assert.Equal(t, 400.0, report.TotalAllTimeCollected)
	assert.Equal(t, 75.0, report.TotalOutstanding)
	assert.Equal(t, 125.0, report.MonthlyTarget)
	assert.Equal(t, 100.0, report.CollectionRate)
	assert.Equal(t, 3, report.TotalMembers)
	require.Len(t, report.ByCategory, 2)

	assert.Equal(t, "Adult", report.ByCategory[0].Category)
	assert.Equal(t, 2, report.ByCategory[0].TotalMembers)
	assert.Equal(t, 100.0, report.ByCategory[0].TotalCollected)
	assert.Equal(t, 50.0, report.ByCategory[0].TotalOutstanding)
	assert.Equal(t, 50.0, report.ByCategory[0].MonthlyFee)

	assert.Equal(t, "Youth", report.ByCategory[1].Category)
	assert.Equal(t, 1, report.ByCategory[1].TotalMembers)
	assert.Equal(t, 25.0, report.ByCategory[1].TotalCollected)
	assert.Equal(t, 25.0, report.ByCategory[1].TotalOutstanding)

	// Сумма по категориям совпадает с общим сбором за период.
	var byCategoryCollected float64
	for _, c := range report.ByCategory {
		byCategoryCollected += c.TotalCollected
	}
	assert.Equal(t, report.TotalCollected, byCategoryCollected)

	require.Len(t, report.RecentContributions, 1)
	assert.Equal(t, "Member uid-1", report.RecentContributions[0].MemberName)
}

func TestCompute_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	balance := new(BalanceMock)
	cache := new(CacheMock)
	s := newService(repo, balance, cache)

	cached := &models.SummaryReport{TotalMembers: 7}
	cache.On("Get", "summary:2024-02-01:2024-02-29", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**models.SummaryReport)
			*ptr = cached
		}).Return(true, nil)

	report, err := s.Compute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, cached, report)
	repo.AssertNotCalled(t, "SumContributionsInRange")
}

func TestCompute_BalanceError(t *testing.T) {
	repo := new(RepoMock)
	balance := new(BalanceMock)
	cache := new(CacheMock)
	passthroughCache(cache)
	s := newService(repo, balance, cache)

	m := memberWithCategory("uid-1", 1, 5000)
	start := date(2024, time.February, 1)
	end := date(2024, time.February, 29)

	repo.On("SumContributionsInRange", mock.Anything, start, end).Return(int64(0), nil)
	repo.On("SumAllContributions", mock.Anything).Return(int64(0), nil)
	repo.On("MonthlyTargetCents", mock.Anything).Return(int64(5000), nil)
	repo.On("CountMembersWithCategory", mock.Anything).Return(1, nil)
	repo.On("ListMembersWithCategory", mock.Anything).Return([]*models.User{m}, nil)
	balance.On("Compute", mock.Anything, m, (*time.Time)(nil)).
		Return(nil, errors.New("db down"))

	_, err := s.Compute(context.Background(), &start, &end)
	assert.Error(t, err)
}
