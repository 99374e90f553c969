// Package storage реализует хранилище данных на основе PostgreSQL
// для учёта категорий членства, участников и взносов. Предоставляет методы
// создания, чтения и удаления записей, а также агрегирующие выборки,
// которыми пользуются расчёт баланса и сводка по сборам.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Ошибки уровня хранилища, на которые опираются сервисы.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrContributionNotFound = errors.New("contribution not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с категориями, участниками и взносами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// ===== USER METHODS =====

// RegisterUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	uid := uuid.NewString()
	query := `INSERT INTO users (uid, username, email, name, password_hash, role, category_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		uid, user.Username, user.Email, user.Name, user.PasswordHash, user.Role, user.CategoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetUserByUsername возвращает пользователя по имени вместе с его категорией.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE u.username = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUserByUID возвращает пользователя по UID вместе с его категорией.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE u.uid = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UserExists проверяет наличие пользователя с данным UID.
func (s *Storage) UserExists(ctx context.Context, uid string) (bool, error) {
	const op = "storage.UserExists"

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE uid = $1)`, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

const userSelect = `
	SELECT u.uid, u.username, u.email, u.name, u.password_hash, u.role, u.category_id, u.created_at,
	       c.id, c.name, c.monthly_fee_cents, c.is_active, c.created_at
	FROM users u
	LEFT JOIN categories c ON c.id = u.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var categoryID sql.NullInt64
	var catID sql.NullInt64
	var catName sql.NullString
	var catFee sql.NullInt64
	var catActive sql.NullBool
	var catCreated sql.NullTime

	if err := row.Scan(&user.UID, &user.Username, &user.Email, &user.Name,
		&user.PasswordHash, &user.Role, &categoryID, &user.CreatedAt,
		&catID, &catName, &catFee, &catActive, &catCreated); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		user.CategoryID = &id
		user.Category = &models.Category{
			ID:              int(catID.Int64),
			Name:            catName.String,
			MonthlyFeeCents: catFee.Int64,
			IsActive:        catActive.Bool,
			CreatedAt:       catCreated.Time,
		}
	}
	return &user, nil
}

// ===== CATEGORY METHODS =====

// ListActiveCategories возвращает все активные категории, упорядоченные по названию.
func (s *Storage) ListActiveCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListActiveCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, monthly_fee_cents, is_active, created_at
			  FROM categories WHERE is_active = TRUE ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.MonthlyFeeCents,
			&category.IsActive, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ===== MEMBER METHODS =====

// ListMembersWithCategory возвращает всех участников, которым назначена категория,
// вместе с загруженной категорией, упорядоченных по имени.
func (s *Storage) ListMembersWithCategory(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListMembersWithCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE u.category_id IS NOT NULL ORDER BY u.name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountMembersWithCategory подсчитывает участников с назначенной категорией.
func (s *Storage) CountMembersWithCategory(ctx context.Context) (int, error) {
	const op = "storage.CountMembersWithCategory"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE category_id IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// MonthlyTargetCents возвращает сумму ежемесячных взносов всех участников
// с категорией — ожидаемый сбор за один месяц.
func (s *Storage) MonthlyTargetCents(ctx context.Context) (int64, error) {
	const op = "storage.MonthlyTargetCents"

	var target int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(c.monthly_fee_cents), 0)
		FROM users u
		JOIN categories c ON c.id = u.category_id`).Scan(&target)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return target, nil
}

// ListMembersWithoutContribution возвращает участников с категорией,
// у которых нет ни одного взноса с датой в диапазоне [from, to].
func (s *Storage) ListMembersWithoutContribution(ctx context.Context, from, to time.Time) ([]*models.User, error) {
	const op = "storage.ListMembersWithoutContribution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + `
	WHERE u.category_id IS NOT NULL
	  AND NOT EXISTS (
		SELECT 1 FROM contributions ct
		WHERE ct.user_uid = u.uid AND ct.date BETWEEN $1 AND $2)
	ORDER BY u.name`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ===== CONTRIBUTION METHODS =====

// CreateContribution вставляет запись о взносе в рамках транзакции
// и возвращает её ID. Запись либо появляется целиком, либо не появляется вовсе.
func (s *Storage) CreateContribution(ctx context.Context, contribution models.Contribution) (int, error) {
	const op = "storage.CreateContribution"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO contributions (user_uid, amount_cents, date, notes, recorded_by_uid)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		contribution.UserUID, contribution.AmountCents, contribution.Date,
		contribution.Notes, contribution.RecordedByUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemoveContribution удаляет взнос по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveContribution(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveContribution"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM contributions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

const contributionSelect = `
	SELECT ct.id, ct.user_uid, u.name, COALESCE(c.name, ''), ct.amount_cents, ct.date, ct.notes, r.name
	FROM contributions ct
	JOIN users u ON u.uid = ct.user_uid
	LEFT JOIN categories c ON c.id = u.category_id
	JOIN users r ON r.uid = ct.recorded_by_uid`

func scanContributionInfo(row rowScanner) (*models.ContributionInfo, error) {
	var info models.ContributionInfo
	var amountCents int64
	var date time.Time

	if err := row.Scan(&info.ID, &info.MemberUID, &info.MemberName, &info.CategoryName,
		&amountCents, &date, &info.Notes, &info.RecorderName); err != nil {
		return nil, err
	}
	info.Amount = models.CentsToAmount(amountCents)
	info.Date = date.Format("2006-01-02")
	return &info, nil
}

// ReadContribution возвращает взнос по ID с именами участника, категории и автора записи.
func (s *Storage) ReadContribution(ctx context.Context, id int) (*models.ContributionInfo, error) {
	const op = "storage.ReadContribution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contributionSelect + ` WHERE ct.id = $1`
	info, err := scanContributionInfo(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrContributionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

// ListContributionsByUser возвращает взносы участника с пагинацией,
// упорядоченные по дате платежа по убыванию.
func (s *Storage) ListContributionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.ContributionInfo, error) {
	const op = "storage.ListContributionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contributionSelect + `
	WHERE ct.user_uid = $1
	ORDER BY ct.date DESC, ct.id DESC
	LIMIT $2 OFFSET $3`
	return s.queryContributions(ctx, op, query, userUID, limit, offset)
}

// ListAllContributions возвращает взносы всех участников с фильтрами
// по категории и участнику и пагинацией.
func (s *Storage) ListAllContributions(ctx context.Context, filter models.ContributionFilter, limit, offset int) ([]*models.ContributionInfo, error) {
	const op = "storage.ListAllContributions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contributionSelect + `
	WHERE ($1::int IS NULL OR u.category_id = $1)
	  AND ($2::uuid IS NULL OR ct.user_uid = $2)
	ORDER BY ct.date DESC, ct.id DESC
	LIMIT $3 OFFSET $4`
	return s.queryContributions(ctx, op, query, filter.CategoryID, filter.UserUID, limit, offset)
}

// ListRecentContributions возвращает limit последних взносов по дате платежа.
func (s *Storage) ListRecentContributions(ctx context.Context, limit int) ([]*models.ContributionInfo, error) {
	const op = "storage.ListRecentContributions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contributionSelect + `
	ORDER BY ct.date DESC, ct.id DESC
	LIMIT $1`
	return s.queryContributions(ctx, op, query, limit)
}

func (s *Storage) queryContributions(ctx context.Context, op, query string, args ...any) ([]*models.ContributionInfo, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.ContributionInfo
	for rows.Next() {
		info, err := scanContributionInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ===== AGGREGATION METHODS =====

// SumContributionsByUser возвращает сумму взносов участника в копейках
// с датой платежа не позже upTo.
func (s *Storage) SumContributionsByUser(ctx context.Context, userUID string, upTo time.Time) (int64, error) {
	const op = "storage.SumContributionsByUser"

	var sum int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM contributions
		WHERE user_uid = $1 AND date <= $2`, userUID, upTo).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// SumContributionsInRange возвращает сумму всех взносов в копейках
// с датой платежа в диапазоне [from, to].
func (s *Storage) SumContributionsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	const op = "storage.SumContributionsInRange"

	var sum int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM contributions
		WHERE date BETWEEN $1 AND $2`, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// SumContributionsInRangeByCategory возвращает сумму взносов участников
// категории categoryID в копейках с датой платежа в диапазоне [from, to].
func (s *Storage) SumContributionsInRangeByCategory(ctx context.Context, categoryID int, from, to time.Time) (int64, error) {
	const op = "storage.SumContributionsInRangeByCategory"

	var sum int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ct.amount_cents), 0)
		FROM contributions ct
		JOIN users u ON u.uid = ct.user_uid
		WHERE u.category_id = $1 AND ct.date BETWEEN $2 AND $3`,
		categoryID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// SumAllContributions возвращает сумму всех взносов за всё время в копейках.
func (s *Storage) SumAllContributions(ctx context.Context) (int64, error) {
	const op = "storage.SumAllContributions"

	var sum int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM contributions`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}
