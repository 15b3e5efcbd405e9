package receipts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/andrejsk/kvits/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx), so it can participate in transactions opened by dbx.WithTx.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const receiptColumns = `id, store, date, total, currency, items, image, extra_images, notes, tags, created_at, updated_at`

// CreateOrUpdate upserts a receipt by id. On conflict every column except the
// id is overwritten: put has whole-record semantics.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, rec *models.Receipt) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	extra, err := json.Marshal(rec.ExtraImages)
	if err != nil {
		return fmt.Errorf("failed to encode extra images: %w", err)
	}
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `INSERT INTO receipts (` + receiptColumns + `)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET store = excluded.store,
				date = excluded.date,
				total = excluded.total,
				currency = excluded.currency,
				items = excluded.items,
				image = excluded.image,
				extra_images = excluded.extra_images,
				notes = excluded.notes,
				tags = excluded.tags,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.Id, rec.Store, rec.Date, rec.Total, rec.Currency,
		string(items), rec.Image, string(extra), rec.Notes, string(tags),
		rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert receipt: %w", err)
	}
	return nil
}

func scanReceipt(scan func(dest ...any) error) (*models.Receipt, error) {
	var (
		rec                  models.Receipt
		items, extra, tags   string
		createdMs, updatedMs int64
	)
	err := scan(&rec.Id, &rec.Store, &rec.Date, &rec.Total, &rec.Currency,
		&items, &rec.Image, &extra, &rec.Notes, &tags, &createdMs, &updatedMs)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	if err := json.Unmarshal([]byte(extra), &rec.ExtraImages); err != nil {
		return nil, fmt.Errorf("failed to decode extra images: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return &rec, nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select receipts: %w", err)
	}
	defer rows.Close()

	var result []models.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists every receipt, oldest transaction date first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Receipt, error) {
	return r.queryMany(ctx, `select `+receiptColumns+` from receipts order by date, id`)
}

// GetByID returns a single receipt or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `select `+receiptColumns+` from receipts where id=?`, id)
	rec, err := scanReceipt(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

// DeleteByID removes a receipt row. Zero rows affected maps to
// common.ErrorNotFound so callers can treat "already gone" explicitly.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from receipts where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// GetByDateRange runs a range query on the date index. Dates are stored in
// models.DateLayout, which compares correctly as text.
func (r *SQLiteRepository) GetByDateRange(ctx context.Context, from, to string) ([]models.Receipt, error) {
	query := `select ` + receiptColumns + ` from receipts where 1=1`
	var args []any
	if from != "" {
		query += ` and date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` and date <= ?`
		args = append(args, to)
	}
	query += ` order by date, id`
	return r.queryMany(ctx, query, args...)
}

// GetByStore runs an equality query on the store index.
func (r *SQLiteRepository) GetByStore(ctx context.Context, store string) ([]models.Receipt, error) {
	return r.queryMany(ctx, `select `+receiptColumns+` from receipts where store=? order by date, id`, store)
}

// GetByCurrency runs an equality query on the currency index.
func (r *SQLiteRepository) GetByCurrency(ctx context.Context, currency string) ([]models.Receipt, error) {
	return r.queryMany(ctx, `select `+receiptColumns+` from receipts where currency=? order by date, id`, currency)
}

func rangeFilter(from, to string) (string, []any) {
	clause := ``
	var args []any
	if from != "" {
		clause += ` and date >= ?`
		args = append(args, from)
	}
	if to != "" {
		clause += ` and date <= ?`
		args = append(args, to)
	}
	return clause, args
}

// TotalsByStore aggregates spend and receipt count per store, biggest
// spenders first.
func (r *SQLiteRepository) TotalsByStore(ctx context.Context, from, to string) ([]StoreTotal, error) {
	clause, args := rangeFilter(from, to)
	query := `select store, sum(total), count(*) from receipts where 1=1` + clause +
		` group by store order by sum(total) desc`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by store: %w", err)
	}
	defer rows.Close()

	var result []StoreTotal
	for rows.Next() {
		var row StoreTotal
		if err := rows.Scan(&row.Store, &row.Total, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// TotalsByMonth aggregates spend per calendar month, chronological order.
// The month key is the date's "YYYY-MM" prefix.
func (r *SQLiteRepository) TotalsByMonth(ctx context.Context, from, to string) ([]MonthTotal, error) {
	clause, args := rangeFilter(from, to)
	query := `select substr(date, 1, 7), sum(total), count(*) from receipts where 1=1` + clause +
		` group by substr(date, 1, 7) order by substr(date, 1, 7)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by month: %w", err)
	}
	defer rows.Close()

	var result []MonthTotal
	for rows.Next() {
		var row MonthTotal
		if err := rows.Scan(&row.Month, &row.Total, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// TotalsByCurrency aggregates spend per currency code.
func (r *SQLiteRepository) TotalsByCurrency(ctx context.Context, from, to string) ([]CurrencyTotal, error) {
	clause, args := rangeFilter(from, to)
	query := `select currency, sum(total), count(*) from receipts where 1=1` + clause +
		` group by currency order by sum(total) desc`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by currency: %w", err)
	}
	defer rows.Close()

	var result []CurrencyTotal
	for rows.Next() {
		var row CurrencyTotal
		if err := rows.Scan(&row.Currency, &row.Total, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
