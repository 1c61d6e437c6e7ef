// internal/store/store.go
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
)

// ProductChanges is a partial update. Nil fields are left untouched.
// ID and CreatedAt are deliberately absent: they are immutable and the
// services reject any attempt to set them before a change set is built.
type ProductChanges struct {
	Name             *string
	StockLevel       *models.StockLevel
	IsOnShoppingList *bool
	IsChecked        *bool
}

// ProductStore is the durable keyed record store for products. All
// operations are atomic at single-record granularity.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	// Get returns (nil, nil) when the id does not exist.
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetAll returns every product ordered by updated_at descending.
	GetAll(ctx context.Context) ([]models.Product, error)
	// Update applies the change set and returns the refreshed record.
	// Missing ids are apperrors.ErrNotFound.
	Update(ctx context.Context, id uuid.UUID, changes ProductChanges) (*models.Product, error)
	// Delete removes the record. Missing ids are apperrors.ErrNotFound;
	// the inventory service decides whether that is surfaced.
	Delete(ctx context.Context, id uuid.UUID) error
	// SearchByName does a case-insensitive substring match, empty query
	// matches everything. Ordered by updated_at descending.
	SearchByName(ctx context.Context, query string) ([]models.Product, error)
	// FindByExactName does a case-insensitive exact match, (nil, nil) on miss.
	FindByExactName(ctx context.Context, name string) (*models.Product, error)
	// ListOnShoppingList returns products with is_on_shopping_list=true,
	// ordered by updated_at descending.
	ListOnShoppingList(ctx context.Context) ([]models.Product, error)
	// Query filters all products through an arbitrary predicate.
	Query(ctx context.Context, predicate func(*models.Product) bool) ([]models.Product, error)
}

// ReceiptStore persists the offline queue and the commit audit trail.
type ReceiptStore interface {
	Create(ctx context.Context, receipt *models.PendingReceipt) error
	Get(ctx context.Context, id uuid.UUID) (*models.PendingReceipt, error)
	// SetStatus updates status and error message for one queued receipt.
	SetStatus(ctx context.Context, id uuid.UUID, status models.ReceiptStatus, errMsg string) error
	ListByStatus(ctx context.Context, status models.ReceiptStatus) ([]models.PendingReceipt, error)
	CountByStatus(ctx context.Context, status models.ReceiptStatus) (int64, error)
	// DeleteOlderThan purges receipts in the given terminal statuses created
	// before the cutoff, returning the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, statuses []models.ReceiptStatus) (int64, error)
	RecordScan(ctx context.Context, scan *models.ReceiptScan) error
	ListScans(ctx context.Context, limit int) ([]models.ReceiptScan, error)
}
