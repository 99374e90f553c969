// Package services содержит бизнес-логику работы со взносами: создание
// с пофиксовой валидацией полей, удаление, чтение и списки. Единственный
// класс ошибок, адресованных вызывающей стороне, — ошибка валидации
// с указанием поля и человеко-читаемого сообщения.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// ValidationError описывает нарушение в данных нового взноса:
// имя поля и сообщение для пользователя.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ContributionRepository определяет методы хранилища для работы со взносами.
type ContributionRepository interface {
	// UserExists проверяет наличие пользователя с данным UID.
	UserExists(ctx context.Context, uid string) (bool, error)
	// CreateContribution вставляет запись о взносе и возвращает её ID.
	CreateContribution(ctx context.Context, contribution models.Contribution) (int, error)
	// RemoveContribution удаляет взнос по ID и возвращает количество удалённых строк.
	RemoveContribution(ctx context.Context, id int) (int, error)
	// ReadContribution возвращает взнос по ID.
	ReadContribution(ctx context.Context, id int) (*models.ContributionInfo, error)
	// ListContributionsByUser возвращает взносы участника с пагинацией.
	ListContributionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.ContributionInfo, error)
	// ListAllContributions возвращает взносы всех участников с фильтрами и пагинацией.
	ListAllContributions(ctx context.Context, filter models.ContributionFilter, limit, offset int) ([]*models.ContributionInfo, error)
}

// Cache описывает методы для инвалидации кешированных отчётов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ContributionService реализует операции со взносами.
type ContributionService struct {
	repo  ContributionRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewContributionService создает новый экземпляр ContributionService.
func NewContributionService(repo ContributionRepository, cache Cache, log *slog.Logger) *ContributionService {
	return &ContributionService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Create валидирует данные нового взноса и сохраняет его.
// Автором записи становится recordedByUID — пользователь, выполняющий запрос.
// Нарушения данных возвращаются как *ValidationError с именем поля.
func (s *ContributionService) Create(ctx context.Context, recordedByUID string, req models.DummyContribution) (int, error) {
	exists, err := s.repo.UserExists(ctx, req.UserUID)
	if err != nil {
		return 0, fmt.Errorf("failed to check member: %w", err)
	}
	if !exists {
		return 0, &ValidationError{Field: "user_uid", Message: "invalid member selected"}
	}

	if req.Amount <= 0 {
		return 0, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, &ValidationError{Field: "date", Message: "invalid date provided"}
	}

	recorderExists, err := s.repo.UserExists(ctx, recordedByUID)
	if err != nil {
		return 0, fmt.Errorf("failed to check recorder: %w", err)
	}
	if !recorderExists {
		return 0, &ValidationError{Field: "recorded_by_uid", Message: "invalid recorder"}
	}

	contribution := models.Contribution{
		UserUID:       req.UserUID,
		AmountCents:   models.AmountToCents(req.Amount),
		Date:          date,
		RecordedByUID: recordedByUID,
	}
	if req.Notes != "" {
		contribution.Notes = &req.Notes
	}

	id, err := s.repo.CreateContribution(ctx, contribution)
	if err != nil {
		return 0, err
	}

	s.log.Info("recorded new contribution", slog.Int("id", id), slog.String("member", req.UserUID))
	s.invalidateBalance(req.UserUID)

	return id, nil
}

// Remove удаляет взнос по ID. Возвращает количество удалённых записей.
func (s *ContributionService) Remove(ctx context.Context, id int) (int, error) {
	info, err := s.repo.ReadContribution(ctx, id)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.RemoveContribution(ctx, id)
	if err != nil {
		return 0, err
	}

	s.log.Info("deleted contribution", slog.Int("id", id))
	s.invalidateBalance(info.MemberUID)

	return count, nil
}

// Read возвращает взнос по ID с именами участника, категории и автора записи.
func (s *ContributionService) Read(ctx context.Context, id int) (*models.ContributionInfo, error) {
	return s.repo.ReadContribution(ctx, id)
}

// ListOwn возвращает взносы участника с пагинацией.
func (s *ContributionService) ListOwn(ctx context.Context, userUID string, limit, offset int) ([]*models.ContributionInfo, error) {
	return s.repo.ListContributionsByUser(ctx, userUID, limit, offset)
}

// ListAll возвращает взносы всех участников с фильтрами и пагинацией.
func (s *ContributionService) ListAll(ctx context.Context, filter models.ContributionFilter, limit, offset int) ([]*models.ContributionInfo, error) {
	return s.repo.ListAllContributions(ctx, filter, limit, offset)
}

// invalidateBalance сбрасывает кешированный отчёт участника на текущую дату.
// Отчёты на другие даты истекают по TTL.
func (s *ContributionService) invalidateBalance(userUID string) {
	cacheKey := fmt.Sprintf("balance:%s:%s", userUID, s.now().Format("2006-01-02"))
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate balance cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
