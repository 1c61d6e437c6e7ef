// internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

const maxProductNameLength = 255

type InventoryService struct {
	store store.ProductStore
}

func NewInventoryService(productStore store.ProductStore) *InventoryService {
	return &InventoryService{store: productStore}
}

// UpdateProductRequest is a partial update. Nil fields are untouched.
// Immutable fields (id, created_at) are rejected before this struct is
// built, see ParseUpdateRequest.
type UpdateProductRequest struct {
	Name             *string
	StockLevel       *models.StockLevel
	IsOnShoppingList *bool
	IsChecked        *bool
}

// ParseUpdateRequest turns a loose JSON body into a typed update request.
// Naming id or created_at is an immutable-field error; unknown fields and
// wrong types are invalid-value errors. Nothing is mutated on failure.
func ParseUpdateRequest(fields map[string]interface{}) (*UpdateProductRequest, error) {
	req := &UpdateProductRequest{}
	for key, value := range fields {
		switch key {
		case "id", "created_at":
			return nil, apperrors.Immutable(key)
		case "name":
			name, ok := value.(string)
			if !ok {
				return nil, apperrors.InvalidValue(key, value)
			}
			req.Name = &name
		case "stock_level":
			raw, ok := value.(string)
			if !ok {
				return nil, apperrors.InvalidValue(key, value)
			}
			level := models.StockLevel(raw)
			if !level.IsValid() {
				return nil, apperrors.InvalidValue(key, raw)
			}
			req.StockLevel = &level
		case "is_on_shopping_list":
			flag, ok := value.(bool)
			if !ok {
				return nil, apperrors.InvalidValue(key, value)
			}
			req.IsOnShoppingList = &flag
		case "is_checked":
			flag, ok := value.(bool)
			if !ok {
				return nil, apperrors.InvalidValue(key, value)
			}
			req.IsChecked = &flag
		default:
			return nil, apperrors.InvalidValue(key, value)
		}
	}
	return req, nil
}

func validateProductName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.Validation("product name must not be empty")
	}
	if len(trimmed) > maxProductNameLength {
		return "", apperrors.Validation("product name exceeds %d characters", maxProductNameLength)
	}
	return trimmed, nil
}

// AddProduct creates a product with defaults: stock high, off the shopping
// list, unchecked.
func (s *InventoryService) AddProduct(ctx context.Context, name string) (*models.Product, error) {
	trimmed, err := validateProductName(name)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:       trimmed,
		StockLevel: models.StockLevelHigh,
	}
	if err := s.store.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return product, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product", id)
	}
	return product, nil
}

func (s *InventoryService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAll(ctx)
}

// UpdateProduct applies a partial update and enforces the automatic
// shopping-list transition: when the stock level changes, low/empty force the
// product onto the list, high forces it off, medium leaves membership alone.
// The rule overrides any membership value supplied in the same call.
func (s *InventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	changes := store.ProductChanges{
		IsOnShoppingList: req.IsOnShoppingList,
		IsChecked:        req.IsChecked,
	}

	if req.Name != nil {
		trimmed, err := validateProductName(*req.Name)
		if err != nil {
			return nil, err
		}
		changes.Name = &trimmed
	}

	if req.StockLevel != nil {
		level := *req.StockLevel
		if !level.IsValid() {
			return nil, apperrors.InvalidValue("stock_level", level)
		}
		changes.StockLevel = &level

		switch level {
		case models.StockLevelLow, models.StockLevelEmpty:
			onList := true
			changes.IsOnShoppingList = &onList
		case models.StockLevelHigh:
			onList := false
			changes.IsOnShoppingList = &onList
		case models.StockLevelMedium:
			// membership keeps whatever it was before
			changes.IsOnShoppingList = nil
		}
	}

	return s.store.Update(ctx, id, changes)
}

// DeleteProduct removes a product. Deleting a missing id is a no-op, not an
// error — the deliberate asymmetry with update.
func (s *InventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// SearchProducts does a case-insensitive substring match on name. Empty
// queries return everything.
func (s *InventoryService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.store.SearchByName(ctx, query)
}

// CycleStockLevel advances the stock level one step in the fixed cycle
// high -> medium -> low -> empty -> high, routed through UpdateProduct so the
// list transition fires.
func (s *InventoryService) CycleStockLevel(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product", id)
	}

	next := product.StockLevel.Next()
	return s.UpdateProduct(ctx, id, &UpdateProductRequest{StockLevel: &next})
}

// ReplenishByName sets the product with the given name (exact,
// case-insensitive) back to high stock, creating it when no match exists.
// Used by the receipt commit step: just bought means fully stocked.
func (s *InventoryService) ReplenishByName(ctx context.Context, name string) (*models.Product, bool, error) {
	existing, err := s.store.FindByExactName(ctx, name)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		product, err := s.AddProduct(ctx, name)
		if err != nil {
			return nil, false, err
		}
		return product, true, nil
	}

	high := models.StockLevelHigh
	product, err := s.UpdateProduct(ctx, existing.ID, &UpdateProductRequest{StockLevel: &high})
	if err != nil {
		return nil, false, err
	}
	return product, false, nil
}
