// internal/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
)

type GormProductStore struct {
	db *gorm.DB
}

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *GormProductStore) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *GormProductStore) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *GormProductStore) Update(ctx context.Context, id uuid.UUID, changes ProductChanges) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.StockLevel != nil {
		updates["stock_level"] = *changes.StockLevel
	}
	if changes.IsOnShoppingList != nil {
		updates["is_on_shopping_list"] = *changes.IsOnShoppingList
	}
	if changes.IsChecked != nil {
		updates["is_checked"] = *changes.IsChecked
	}
	// updated_at must refresh even when the change set is a no-op for gorm
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	return &product, nil
}

func (s *GormProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (s *GormProductStore) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	db := s.db.WithContext(ctx).Order("updated_at DESC")
	if query != "" {
		searchTerm := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(name) LIKE ?", searchTerm)
	}
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *GormProductStore) FindByExactName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Order("updated_at DESC").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *GormProductStore) ListOnShoppingList(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("is_on_shopping_list = ?", true).
		Order("updated_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shopping list: %w", err)
	}
	return products, nil
}

func (s *GormProductStore) Query(ctx context.Context, predicate func(*models.Product) bool) ([]models.Product, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Product, 0, len(all))
	for i := range all {
		if predicate(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}

type GormReceiptStore struct {
	db *gorm.DB
}

func NewGormReceiptStore(db *gorm.DB) *GormReceiptStore {
	return &GormReceiptStore{db: db}
}

func (s *GormReceiptStore) Create(ctx context.Context, receipt *models.PendingReceipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.Status == "" {
		receipt.Status = models.ReceiptStatusPending
	}
	if err := s.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to enqueue receipt: %w", err)
	}
	return nil
}

func (s *GormReceiptStore) Get(ctx context.Context, id uuid.UUID) (*models.PendingReceipt, error) {
	var receipt models.PendingReceipt
	if err := s.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &receipt, nil
}

func (s *GormReceiptStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ReceiptStatus, errMsg string) error {
	result := s.db.WithContext(ctx).Model(&models.PendingReceipt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "error": errMsg})
	if result.Error != nil {
		return fmt.Errorf("failed to update receipt status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("pending receipt", id)
	}
	return nil
}

func (s *GormReceiptStore) ListByStatus(ctx context.Context, status models.ReceiptStatus) ([]models.PendingReceipt, error) {
	var receipts []models.PendingReceipt
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

func (s *GormReceiptStore) CountByStatus(ctx context.Context, status models.ReceiptStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PendingReceipt{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return count, nil
}

func (s *GormReceiptStore) DeleteOlderThan(ctx context.Context, cutoff time.Time, statuses []models.ReceiptStatus) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", statuses, cutoff).
		Delete(&models.PendingReceipt{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge old receipts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormReceiptStore) RecordScan(ctx context.Context, scan *models.ReceiptScan) error {
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(scan).Error; err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

func (s *GormReceiptStore) ListScans(ctx context.Context, limit int) ([]models.ReceiptScan, error) {
	var scans []models.ReceiptScan
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return scans, nil
}
