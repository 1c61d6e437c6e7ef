// internal/services/shopping_list_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
	"github.com/ismaelcabanas/home-inventory-backend/internal/preferences"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

type ShoppingListService struct {
	store store.ProductStore
	prefs preferences.Store
}

func NewShoppingListService(productStore store.ProductStore, prefs preferences.Store) *ShoppingListService {
	return &ShoppingListService{store: productStore, prefs: prefs}
}

type Progress struct {
	CheckedCount int `json:"checked_count"`
	TotalCount   int `json:"total_count"`
}

// GetListItems returns every product on the shopping list, most recently
// changed first.
func (s *ShoppingListService) GetListItems(ctx context.Context) ([]models.Product, error) {
	return s.store.ListOnShoppingList(ctx)
}

// GetListCount counts with the same predicate as GetListItems; it is derived
// on every call, never a separately maintained counter.
func (s *ShoppingListService) GetListCount(ctx context.Context) (int, error) {
	items, err := s.store.ListOnShoppingList(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// AddToList is the manual override: membership is set directly, stock level
// untouched. High-stock items can live on the list this way.
func (s *ShoppingListService) AddToList(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	onList := true
	return s.store.Update(ctx, id, store.ProductChanges{IsOnShoppingList: &onList})
}

// RemoveFromList manually takes an item off the list. The removal sticks
// until the next stock-level-changing update re-runs the automatic rule;
// unrelated updates never resurrect membership.
func (s *ShoppingListService) RemoveFromList(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	onList := false
	return s.store.Update(ctx, id, store.ProductChanges{IsOnShoppingList: &onList})
}

// UpdateCheckedState flips only the collected flag. Membership and stock
// level are never touched here.
func (s *ShoppingListService) UpdateCheckedState(ctx context.Context, id uuid.UUID, checked bool) (*models.Product, error) {
	return s.store.Update(ctx, id, store.ProductChanges{IsChecked: &checked})
}

// GetProgress reports collected/total over the current list items.
func (s *ShoppingListService) GetProgress(ctx context.Context) (*Progress, error) {
	items, err := s.store.ListOnShoppingList(ctx)
	if err != nil {
		return nil, err
	}
	progress := &Progress{TotalCount: len(items)}
	for _, item := range items {
		if item.IsChecked {
			progress.CheckedCount++
		}
	}
	return progress, nil
}

func (s *ShoppingListService) GetShoppingMode(ctx context.Context) (bool, error) {
	return s.prefs.GetShoppingMode(ctx)
}

func (s *ShoppingListService) SetShoppingMode(ctx context.Context, enabled bool) error {
	return s.prefs.SetShoppingMode(ctx, enabled)
}

// PurgePurchased removes every listed product whose name matches one of the
// given names (case-insensitive). Second step of the receipt commit.
func (s *ShoppingListService) PurgePurchased(ctx context.Context, names []string) (int, error) {
	purchased := make(map[string]struct{}, len(names))
	for _, name := range names {
		purchased[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	items, err := s.store.ListOnShoppingList(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, item := range items {
		if _, ok := purchased[strings.ToLower(item.Name)]; !ok {
			continue
		}
		if _, err := s.RemoveFromList(ctx, item.ID); err != nil {
			return removed, fmt.Errorf("failed to purge %q from list: %w", item.Name, err)
		}
		removed++
	}
	return removed, nil
}
