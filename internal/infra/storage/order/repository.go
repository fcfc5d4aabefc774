package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/dbmetrics"
	"github.com/m04kA/SMC-OrderFlow/pkg/psqlbuilder"
)

var orderColumns = []string{
	"id",
	"customer_id",
	"vehicle_id",
	"address_id",
	"services",
	"service_date",
	"service_time",
	"duration_minutes",
	"total_amount",
	"travel_fee",
	"grand_total",
	"currency",
	"state",
	"payment_id",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заказами
type Repository struct {
	db      DBExecutor
	dialect psqlbuilder.Dialect
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		builder: psqlbuilder.For(dialect),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create создает новый заказ
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := r.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt

	services, err := json.Marshal(order.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal services: %v", ErrBuildQuery, err)
	}

	query, args, err := r.builder.Insert("orders").
		Columns(orderColumns...).
		Values(
			order.ID,
			order.CustomerID,
			order.VehicleID,
			order.AddressID,
			string(services),
			order.ServiceDate.Format(domain.DateFormat),
			order.ServiceTime,
			order.DurationMinutes,
			order.TotalAmount,
			order.TravelFee,
			order.GrandTotal,
			order.Currency,
			order.State,
			order.PaymentID,
			order.CancelledAt,
			order.CreatedAt,
			order.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return order, nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id})
	selectBuilder = r.lockInTx(ctx, selectBuilder)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	order, err := scanOrder(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan order: %v", ErrScanRow, err)
	}

	return order, nil
}

// List получает заказы клиента, новые первыми
// Опционально фильтрует по состоянию
func (r *Repository) List(ctx context.Context, customerID string, state *domain.OrderState) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("service_date DESC", "service_time DESC", "created_at DESC")

	// Фильтрация по состоянию, если указано
	if state != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *state})
	}

	// Внутри транзакции блокируем строки клиента (проверка дубликатов при создании)
	selectBuilder = r.lockInTx(ctx, selectBuilder)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByDate получает активные заказы на дату, отсортированные по времени
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactive := make([]string, len(domain.InactiveStates))
	for i, s := range domain.InactiveStates {
		inactive[i] = string(s)
	}

	query, args, err := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"service_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"state": inactive}).
		OrderBy("service_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateState обновляет состояние заказа
// При переходе в canceled фиксирует время отмены
func (r *Repository) UpdateState(ctx context.Context, id string, state domain.OrderState) error {
	if !state.IsValid() {
		return ErrInvalidState
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	updateBuilder := r.builder.Update("orders").
		Set("state", state).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id})
	if state == domain.OrderStateCanceled {
		updateBuilder = updateBuilder.Set("cancelled_at", now)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// lockInTx добавляет FOR UPDATE внутри транзакции postgres
// SQLite блокирует всю базу на время записи и FOR UPDATE не поддерживает
func (r *Repository) lockInTx(ctx context.Context, b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if r.dialect == psqlbuilder.DialectPostgres && dbmetrics.IsInTransaction(ctx) {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOrder сканирует одну строку в заказ
func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order       domain.Order
		services    []byte
		serviceDate dateValue
		paymentID   sql.NullString
		cancelledAt sql.NullTime
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.VehicleID,
		&order.AddressID,
		&services,
		&serviceDate,
		&order.ServiceTime,
		&order.DurationMinutes,
		&order.TotalAmount,
		&order.TravelFee,
		&order.GrandTotal,
		&order.Currency,
		&order.State,
		&paymentID,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(services, &order.Services); err != nil {
		return nil, fmt.Errorf("unmarshal services: %v", err)
	}
	order.ServiceDate = serviceDate.Time
	if paymentID.Valid {
		order.PaymentID = &paymentID.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		order.CancelledAt = &t
	}
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	return &order, nil
}

// scanOrders сканирует результаты запроса в слайс заказов
func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanOrders - scan row: %v", ErrScanRow, err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanOrders - rows error: %v", ErrScanRow, err)
	}

	return orders, nil
}

// dateValue принимает DATE (postgres) и TEXT YYYY-MM-DD (sqlite)
type dateValue struct {
	Time time.Time
}

func (d *dateValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = domain.DateOnly(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("unsupported service_date type %T", src)
}

func (d *dateValue) parse(s string) error {
	if len(s) > len(domain.DateFormat) {
		s = s[:len(domain.DateFormat)]
	}
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
