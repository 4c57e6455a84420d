package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mbetts/wosync/internal/db"
	"github.com/mbetts/wosync/internal/domain"
)

// SQLiteWorkOrderRepo implements WorkOrderRepo over the local reference
// database.
type SQLiteWorkOrderRepo struct {
	db db.DBTX
}

// NewSQLiteWorkOrderRepo creates a new SQLiteWorkOrderRepo.
func NewSQLiteWorkOrderRepo(dbtx db.DBTX) *SQLiteWorkOrderRepo {
	return &SQLiteWorkOrderRepo{db: dbtx}
}

func (r *SQLiteWorkOrderRepo) Get(ctx context.Context, number string) (*domain.WorkOrder, error) {
	query := `SELECT number, control_number, open, created_at, updated_at
		FROM work_orders WHERE number = ?`
	row := r.db.QueryRowContext(ctx, query, number)
	return r.scanWorkOrder(row)
}

func (r *SQLiteWorkOrderRepo) List(ctx context.Context, openOnly bool) ([]*domain.WorkOrder, error) {
	query := `SELECT number, control_number, open, created_at, updated_at
		FROM work_orders`
	if openOnly {
		query += ` WHERE open = 1`
	}
	query += ` ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.WorkOrder
	for rows.Next() {
		wo, err := r.scanWorkOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work orders: %w", err)
	}
	return orders, nil
}

func (r *SQLiteWorkOrderRepo) Upsert(ctx context.Context, wo *domain.WorkOrder) error {
	if !domain.ValidWorkOrderNumber(wo.Number) {
		return fmt.Errorf("work order number %q: %w", wo.Number, domain.ErrBadNumber)
	}
	if wo.ControlNumber != "" && !domain.ValidControlNumber(wo.ControlNumber) {
		return fmt.Errorf("control number %q: %w", wo.ControlNumber, domain.ErrBadNumber)
	}

	query := `INSERT INTO work_orders (number, control_number, open, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			control_number = excluded.control_number,
			open = excluded.open,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		wo.Number,
		wo.ControlNumber,
		boolToInt(wo.Open),
		nowUTC(),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting work order: %w", err)
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) MarkClosed(ctx context.Context, number string) error {
	query := `UPDATE work_orders SET open = 0, updated_at = ? WHERE number = ?`
	res, err := r.db.ExecContext(ctx, query, nowUTC(), number)
	if err != nil {
		return fmt.Errorf("closing work order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("work order %s: %w", number, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) Delete(ctx context.Context, number string) error {
	query := `DELETE FROM work_orders WHERE number = ?`
	if _, err := r.db.ExecContext(ctx, query, number); err != nil {
		return fmt.Errorf("deleting work order: %w", err)
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) scanWorkOrder(row *sql.Row) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var open int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&wo.Number, &wo.ControlNumber, &open, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work order: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work order: %w", err)
	}
	return r.populateWorkOrder(&wo, open, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorkOrderRepo) scanWorkOrderRow(rows *sql.Rows) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var open int
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(&wo.Number, &wo.ControlNumber, &open, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning work order row: %w", err)
	}
	return r.populateWorkOrder(&wo, open, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorkOrderRepo) populateWorkOrder(wo *domain.WorkOrder, open int, createdAtStr, updatedAtStr string) (*domain.WorkOrder, error) {
	wo.Open = intToBool(open)

	var err error
	wo.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	wo.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return wo, nil
}
