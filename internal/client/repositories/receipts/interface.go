package receipts

import (
	"context"

	"github.com/andrejsk/kvits/internal/client/models"
)

// StoreTotal is an aggregate row: spend and receipt count for one store.
type StoreTotal struct {
	Store string
	Total float64
	Count int
}

// MonthTotal is an aggregate row for one calendar month ("2006-01").
type MonthTotal struct {
	Month string
	Total float64
	Count int
}

// CurrencyTotal is an aggregate row for one currency code.
type CurrencyTotal struct {
	Currency string
	Total    float64
	Count    int
}

// Repository describes CRUD, query and aggregate operations for Receipt
// records. Implementations are backed by the local SQLite database and are
// available without network or authentication.
type Repository interface {
	// CreateOrUpdate inserts a new receipt or fully overwrites an existing
	// one by Id (upsert semantics).
	CreateOrUpdate(ctx context.Context, r *models.Receipt) error

	// GetAll returns every receipt in the local store.
	GetAll(ctx context.Context) ([]models.Receipt, error)

	// GetByID returns a receipt by its identifier, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Receipt, error)

	// DeleteByID removes a receipt. Returns common.ErrorNotFound when no
	// row matched.
	DeleteByID(ctx context.Context, id string) error

	// GetByDateRange returns receipts whose transaction date lies in
	// [from, to], both in models.DateLayout format. Empty bounds are open.
	GetByDateRange(ctx context.Context, from, to string) ([]models.Receipt, error)

	// GetByStore returns receipts with an exactly matching store name.
	GetByStore(ctx context.Context, store string) ([]models.Receipt, error)

	// GetByCurrency returns receipts with an exactly matching currency code.
	GetByCurrency(ctx context.Context, currency string) ([]models.Receipt, error)

	// TotalsByStore aggregates spend per store over a date range.
	TotalsByStore(ctx context.Context, from, to string) ([]StoreTotal, error)

	// TotalsByMonth aggregates spend per calendar month over a date range.
	TotalsByMonth(ctx context.Context, from, to string) ([]MonthTotal, error)

	// TotalsByCurrency aggregates spend per currency over a date range.
	TotalsByCurrency(ctx context.Context, from, to string) ([]CurrencyTotal, error)
}
