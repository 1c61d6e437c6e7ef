// internal/scheduler/queue_drainer_test.go
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaelcabanas/home-inventory-backend/internal/ocr"
	"github.com/ismaelcabanas/home-inventory-backend/internal/preferences"
	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

func newDrainerFixture(t *testing.T, online bool) (*QueueDrainer, *services.ReceiptService, *services.StaticConnectivityChecker) {
	t.Helper()

	productStore := store.NewMemoryProductStore()
	receiptStore := store.NewMemoryReceiptStore()
	inventory := services.NewInventoryService(productStore)
	shoppingList := services.NewShoppingListService(productStore, preferences.NewMemoryStore())
	connectivity := &services.StaticConnectivityChecker{IsOnline: online}
	receipts := services.NewReceiptService(
		productStore, receiptStore, inventory, shoppingList,
		ocr.NewStubProvider("Milk 1.99"), nil, connectivity,
		ocr.Options{}, time.Hour,
	)
	return NewQueueDrainer(receipts, connectivity, time.Hour), receipts, connectivity
}

func TestDrainerDrainsOnReconnect(t *testing.T) {
	ctx := context.Background()
	drainer, receipts, connectivity := newDrainerFixture(t, false)
	drainer.wasOnline = false

	_, err := receipts.SubmitImage(ctx, []byte("jpeg"))
	require.NoError(t, err)
	pending, err := receipts.GetPendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), pending)

	// still offline: nothing moves
	drainer.tick(ctx)
	pending, err = receipts.GetPendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	// back online: the transition tick drains the queue
	connectivity.IsOnline = true
	drainer.tick(ctx)
	pending, err = receipts.GetPendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Len(t, receipts.ReviewSessions(), 1)
}

func TestDrainerTicksWhileOnlineWithBacklog(t *testing.T) {
	ctx := context.Background()
	drainer, receipts, connectivity := newDrainerFixture(t, false)

	// queue one receipt while offline, then stay online across ticks
	_, err := receipts.SubmitImage(ctx, []byte("jpeg"))
	require.NoError(t, err)

	connectivity.IsOnline = true
	drainer.wasOnline = true
	drainer.tick(ctx)

	pending, err := receipts.GetPendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestDrainerStartStop(t *testing.T) {
	drainer, _, _ := newDrainerFixture(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drainer.Start(ctx)
	drainer.Stop()
}
