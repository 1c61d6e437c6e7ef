// internal/scheduler/queue_drainer.go
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
)

// QueueDrainer watches connectivity and drains the offline receipt queue.
// A drain fires on the offline->online transition and on every interval tick
// while online; each drain also runs the retention sweep.
type QueueDrainer struct {
	receipts     *services.ReceiptService
	connectivity services.ConnectivityChecker
	interval     time.Duration
	stopCh       chan struct{}

	wasOnline bool
}

func NewQueueDrainer(receipts *services.ReceiptService, connectivity services.ConnectivityChecker, interval time.Duration) *QueueDrainer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &QueueDrainer{
		receipts:     receipts,
		connectivity: connectivity,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the periodic connectivity watch.
func (d *QueueDrainer) Start(ctx context.Context) {
	d.wasOnline = d.connectivity.Online(ctx)
	if d.wasOnline {
		d.drain(ctx)
	}

	ticker := time.NewTicker(d.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.tick(ctx)
			case <-d.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the drainer.
func (d *QueueDrainer) Stop() {
	close(d.stopCh)
}

func (d *QueueDrainer) tick(ctx context.Context) {
	online := d.connectivity.Online(ctx)
	cameBackOnline := online && !d.wasOnline
	d.wasOnline = online

	if !online {
		return
	}
	if cameBackOnline {
		logrus.Info("connectivity restored, draining offline queue")
		d.drain(ctx)
		return
	}

	pending, err := d.receipts.GetPendingCount(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to count pending receipts")
		return
	}
	if pending > 0 {
		d.drain(ctx)
	}
}

func (d *QueueDrainer) drain(ctx context.Context) {
	if _, err := d.receipts.DrainOfflineQueue(ctx); err != nil {
		logrus.WithError(err).Error("offline queue drain failed")
	}
}
