// internal/store/memory_store.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
)

// MemoryProductStore keeps products in a mutex-guarded map. Used by tests and
// as a fallback when no database is configured. A per-record sequence number
// mirrors updated_at so ordering stays deterministic even when two mutations
// land within clock resolution.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*models.Product
	seq      map[uuid.UUID]uint64
	nextSeq  uint64
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		products: make(map[uuid.UUID]*models.Product),
		seq:      make(map[uuid.UUID]uint64),
	}
}

func (s *MemoryProductStore) touch(p *models.Product) {
	s.nextSeq++
	s.seq[p.ID] = s.nextSeq
	p.UpdatedAt = time.Now()
}

func (s *MemoryProductStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	clone := *product
	s.products[clone.ID] = &clone
	s.nextSeq++
	s.seq[clone.ID] = s.nextSeq
	return nil
}

func (s *MemoryProductStore) Get(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	clone := *product
	return &clone, nil
}

func (s *MemoryProductStore) GetAll(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(*models.Product) bool { return true }), nil
}

func (s *MemoryProductStore) Update(_ context.Context, id uuid.UUID, changes ProductChanges) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	if changes.Name != nil {
		product.Name = *changes.Name
	}
	if changes.StockLevel != nil {
		product.StockLevel = *changes.StockLevel
	}
	if changes.IsOnShoppingList != nil {
		product.IsOnShoppingList = *changes.IsOnShoppingList
	}
	if changes.IsChecked != nil {
		product.IsChecked = *changes.IsChecked
	}
	s.touch(product)

	clone := *product
	return &clone, nil
}

func (s *MemoryProductStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(s.products, id)
	delete(s.seq, id)
	return nil
}

func (s *MemoryProductStore) SearchByName(_ context.Context, query string) ([]models.Product, error) {
	needle := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(p *models.Product) bool {
		return needle == "" || strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (s *MemoryProductStore) FindByExactName(_ context.Context, name string) (*models.Product, error) {
	needle := strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sortedLocked(func(p *models.Product) bool {
		return strings.ToLower(p.Name) == needle
	})
	if len(matched) == 0 {
		return nil, nil
	}
	clone := matched[0]
	return &clone, nil
}

func (s *MemoryProductStore) ListOnShoppingList(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(p *models.Product) bool { return p.IsOnShoppingList }), nil
}

func (s *MemoryProductStore) Query(_ context.Context, predicate func(*models.Product) bool) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(predicate), nil
}

// sortedLocked filters and returns copies ordered by updated_at descending.
// Callers must hold at least the read lock.
func (s *MemoryProductStore) sortedLocked(predicate func(*models.Product) bool) []models.Product {
	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if predicate(p) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return s.seq[matched[i].ID] > s.seq[matched[j].ID]
	})
	return matched
}

// MemoryReceiptStore is the in-memory counterpart for the offline queue.
type MemoryReceiptStore struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]*models.PendingReceipt
	scans    []models.ReceiptScan
}

func NewMemoryReceiptStore() *MemoryReceiptStore {
	return &MemoryReceiptStore{
		receipts: make(map[uuid.UUID]*models.PendingReceipt),
	}
}

func (s *MemoryReceiptStore) Create(_ context.Context, receipt *models.PendingReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.Status == "" {
		receipt.Status = models.ReceiptStatusPending
	}
	// preset timestamps survive, so housekeeping cutoffs are testable
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}
	receipt.UpdatedAt = receipt.CreatedAt

	clone := *receipt
	s.receipts[clone.ID] = &clone
	return nil
}

func (s *MemoryReceiptStore) Get(_ context.Context, id uuid.UUID) (*models.PendingReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, ok := s.receipts[id]
	if !ok {
		return nil, nil
	}
	clone := *receipt
	return &clone, nil
}

func (s *MemoryReceiptStore) SetStatus(_ context.Context, id uuid.UUID, status models.ReceiptStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, ok := s.receipts[id]
	if !ok {
		return apperrors.NotFound("pending receipt", id)
	}
	receipt.Status = status
	receipt.Error = errMsg
	receipt.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryReceiptStore) ListByStatus(_ context.Context, status models.ReceiptStatus) ([]models.PendingReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.PendingReceipt, 0)
	for _, r := range s.receipts {
		if r.Status == status {
			matched = append(matched, *r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *MemoryReceiptStore) CountByStatus(_ context.Context, status models.ReceiptStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, r := range s.receipts {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *MemoryReceiptStore) DeleteOlderThan(_ context.Context, cutoff time.Time, statuses []models.ReceiptStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, r := range s.receipts {
		if !r.CreatedAt.Before(cutoff) {
			continue
		}
		for _, status := range statuses {
			if r.Status == status {
				delete(s.receipts, id)
				removed++
				break
			}
		}
	}
	return removed, nil
}

func (s *MemoryReceiptStore) RecordScan(_ context.Context, scan *models.ReceiptScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	scan.CreatedAt = time.Now()
	scan.UpdatedAt = scan.CreatedAt
	s.scans = append([]models.ReceiptScan{*scan}, s.scans...)
	return nil
}

func (s *MemoryReceiptStore) ListScans(_ context.Context, limit int) ([]models.ReceiptScan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.scans) {
		limit = len(s.scans)
	}
	out := make([]models.ReceiptScan, limit)
	copy(out, s.scans[:limit])
	return out, nil
}
