package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SportHub-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var policyColumns = []string{
	"id",
	"activity_id",
	"min_notice_minutes",
	"max_advance_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политиками бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetEffective получает действующую политику для активности:
// 1. Если есть политика для конкретной активности - возвращает её
// 2. Иначе возвращает глобальную политику (activity_id IS NULL)
// 3. Если нет ни той, ни другой - ErrPolicyNotFound (вызывающий код применяет дефолты)
func (r *Repository) GetEffective(ctx context.Context, activityID int64) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("reservation_policies").
		Where(squirrel.Or{
			squirrel.Eq{"activity_id": activityID},
			squirrel.Eq{"activity_id": nil},
		}).
		OrderBy("activity_id ASC NULLS LAST").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEffective - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryOne(ctx, executor, query, args, "GetEffective")
}

// GetByActivity получает политику конкретной активности (без fallback на глобальную)
// activityID == nil означает глобальную политику
func (r *Repository) GetByActivity(ctx context.Context, activityID *int64) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("reservation_policies").
		Where(squirrel.Eq{"activity_id": activityID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByActivity - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryOne(ctx, executor, query, args, "GetByActivity")
}

// Upsert создает или обновляет политику для активности
func (r *Repository) Upsert(ctx context.Context, p *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_policies").
		Columns(
			"activity_id",
			"min_notice_minutes",
			"max_advance_days",
		).
		Values(
			p.ActivityID,
			p.MinNoticeMinutes,
			p.MaxAdvanceDays,
		).
		Suffix(`ON CONFLICT (activity_id) DO UPDATE
			SET min_notice_minutes = EXCLUDED.min_notice_minutes,
			    max_advance_days = EXCLUDED.max_advance_days
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// Delete удаляет политику активности (активность возвращается к глобальной политике)
func (r *Repository) Delete(ctx context.Context, activityID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservation_policies").
		Where(squirrel.Eq{"activity_id": activityID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

func (r *Repository) queryOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) (*domain.ReservationPolicy, error) {
	var p domain.ReservationPolicy
	var createdAt, updatedAt sql.NullTime

	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.ActivityID,
		&p.MinNoticeMinutes,
		&p.MaxAdvanceDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan policy: %v", ErrScanRow, method, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
