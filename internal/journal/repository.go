package journal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("journal entry not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Record(ctx context.Context, e Entry) error
	MarkTotal(ctx context.Context, orderID int, total decimal.Decimal) error
	MarkFrozen(ctx context.Context, orderID, saleID int) error
	MarkFailed(ctx context.Context, orderID int, reason string) error
	// Pending lists unfrozen entries created before the given time with fewer
	// than maxAttempts attempts, oldest first. maxAttempts <= 0 means no cap.
	Pending(ctx context.Context, before time.Time, maxAttempts, limit int) ([]Entry, error)
	Get(ctx context.Context, orderID int) (Entry, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const entryColumns = `order_id, cart_id, shipment_id, customer_id, total, status, sale_id, last_error, attempts, created_at, updated_at`

func (r *PostgresRepository) Record(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO checkout_journal(order_id, cart_id, shipment_id, customer_id, status)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING
	`, e.OrderID, e.CartID, e.ShipmentID, e.CustomerID, string(StatusOrderCreated))
	return err
}

func (r *PostgresRepository) MarkTotal(ctx context.Context, orderID int, total decimal.Decimal) error {
	return r.update(ctx, `
		UPDATE checkout_journal
		SET total=$2, status=$3, updated_at=now()
		WHERE order_id=$1
	`, orderID, total.StringFixed(2), string(StatusTotalComputed))
}

func (r *PostgresRepository) MarkFrozen(ctx context.Context, orderID, saleID int) error {
	return r.update(ctx, `
		UPDATE checkout_journal
		SET sale_id=$2, status=$3, last_error='', updated_at=now()
		WHERE order_id=$1
	`, orderID, saleID, string(StatusFrozen))
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, orderID int, reason string) error {
	return r.update(ctx, `
		UPDATE checkout_journal
		SET status=$2, last_error=$3, attempts=attempts+1, updated_at=now()
		WHERE order_id=$1
	`, orderID, string(StatusFailed), reason)
}

func (r *PostgresRepository) update(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Pending(ctx context.Context, before time.Time, maxAttempts, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM checkout_journal
		WHERE status <> $1 AND created_at < $2 AND ($3 <= 0 OR attempts < $3)
		ORDER BY created_at, order_id
		LIMIT $4
	`, string(StatusFrozen), before, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, orderID int) (Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM checkout_journal WHERE order_id=$1`, orderID)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e      Entry
		status string
	)
	err := row.Scan(&e.OrderID, &e.CartID, &e.ShipmentID, &e.CustomerID, &e.Total, &status,
		&e.SaleID, &e.LastError, &e.Attempts, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	e.Status = Status(status)
	return e, nil
}
