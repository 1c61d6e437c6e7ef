// internal/store/memory_store_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
)

func newProduct(name string) *models.Product {
	return &models.Product{Name: name, StockLevel: models.StockLevelHigh}
}

func TestMemoryProductStoreCreateAssignsIdentity(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	p := newProduct("Milk")
	require.NoError(t, s.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	reread, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, reread)
	assert.Equal(t, "Milk", reread.Name)
}

func TestMemoryProductStoreGetMissingReturnsNil(t *testing.T) {
	s := NewMemoryProductStore()
	product, err := s.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestMemoryProductStoreReturnsCopies(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	p := newProduct("Milk")
	require.NoError(t, s.Create(ctx, p))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", again.Name, "callers must not be able to mutate stored state")
}

func TestMemoryProductStoreOrderingFollowsUpdates(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	first := newProduct("First")
	second := newProduct("Second")
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Second", all[0].Name)

	name := "First Updated"
	_, err = s.Update(ctx, first.ID, ProductChanges{Name: &name})
	require.NoError(t, err)

	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First Updated", all[0].Name)
}

func TestMemoryProductStoreUpdateMissing(t *testing.T) {
	s := NewMemoryProductStore()
	name := "x"
	_, err := s.Update(context.Background(), uuid.New(), ProductChanges{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryProductStoreDelete(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	p := newProduct("Milk")
	require.NoError(t, s.Create(ctx, p))
	require.NoError(t, s.Delete(ctx, p.ID))

	gone, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, s.Delete(ctx, p.ID), apperrors.ErrNotFound)
}

func TestMemoryProductStoreSearchAndExactName(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()
	for _, name := range []string{"Whole Milk", "Oat Milk", "Bread"} {
		require.NoError(t, s.Create(ctx, newProduct(name)))
	}

	matches, err := s.SearchByName(ctx, "milk")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	all, err := s.SearchByName(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	exact, err := s.FindByExactName(ctx, "OAT MILK")
	require.NoError(t, err)
	require.NotNil(t, exact)
	assert.Equal(t, "Oat Milk", exact.Name)

	none, err := s.FindByExactName(ctx, "Milk")
	require.NoError(t, err)
	assert.Nil(t, none, "exact match must not fall back to substring")
}

func TestMemoryProductStoreListOnShoppingList(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	listed := newProduct("Milk")
	listed.IsOnShoppingList = true
	require.NoError(t, s.Create(ctx, listed))
	require.NoError(t, s.Create(ctx, newProduct("Bread")))

	items, err := s.ListOnShoppingList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestMemoryReceiptStoreLifecycle(t *testing.T) {
	s := NewMemoryReceiptStore()
	ctx := context.Background()

	r := &models.PendingReceipt{ImageData: []byte("jpeg")}
	require.NoError(t, s.Create(ctx, r))
	assert.Equal(t, models.ReceiptStatusPending, r.Status)

	count, err := s.CountByStatus(ctx, models.ReceiptStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.SetStatus(ctx, r.ID, models.ReceiptStatusProcessing, ""))
	require.NoError(t, s.SetStatus(ctx, r.ID, models.ReceiptStatusFailed, "provider down"))

	reread, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, reread)
	assert.Equal(t, models.ReceiptStatusFailed, reread.Status)
	assert.Equal(t, "provider down", reread.Error)

	count, err = s.CountByStatus(ctx, models.ReceiptStatusPending)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryReceiptStoreListByStatusOldestFirst(t *testing.T) {
	s := NewMemoryReceiptStore()
	ctx := context.Background()

	old := &models.PendingReceipt{ImageData: []byte("old")}
	old.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Create(ctx, old))

	recent := &models.PendingReceipt{ImageData: []byte("recent")}
	require.NoError(t, s.Create(ctx, recent))

	pending, err := s.ListByStatus(ctx, models.ReceiptStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, old.ID, pending[0].ID, "drain order is submission order")
}

func TestMemoryReceiptStoreDeleteOlderThan(t *testing.T) {
	s := NewMemoryReceiptStore()
	ctx := context.Background()

	staleFailed := &models.PendingReceipt{ImageData: []byte("a")}
	staleFailed.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.Create(ctx, staleFailed))
	require.NoError(t, s.SetStatus(ctx, staleFailed.ID, models.ReceiptStatusFailed, "x"))

	stalePending := &models.PendingReceipt{ImageData: []byte("b")}
	stalePending.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.Create(ctx, stalePending))

	freshFailed := &models.PendingReceipt{ImageData: []byte("c")}
	require.NoError(t, s.Create(ctx, freshFailed))
	require.NoError(t, s.SetStatus(ctx, freshFailed.ID, models.ReceiptStatusFailed, "x"))

	removed, err := s.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour),
		[]models.ReceiptStatus{models.ReceiptStatusCompleted, models.ReceiptStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed, "pending receipts are never purged regardless of age")

	kept, err := s.Get(ctx, stalePending.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestMemoryReceiptStoreScans(t *testing.T) {
	s := NewMemoryReceiptStore()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.RecordScan(ctx, &models.ReceiptScan{
			Provider:     "stub",
			ProductNames: []string{name},
		}))
	}

	scans, err := s.ListScans(ctx, 2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "third", scans[0].ProductNames[0], "most recent scan first")

	all, err := s.ListScans(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
