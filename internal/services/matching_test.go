// internal/services/matching_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

func seedInventory(t *testing.T, names ...string) ([]models.Product, *store.MemoryProductStore) {
	t.Helper()
	ctx := context.Background()
	productStore := store.NewMemoryProductStore()
	for _, name := range names {
		require.NoError(t, productStore.Create(ctx, &models.Product{
			Name:       name,
			StockLevel: models.StockLevelHigh,
		}))
	}
	products, err := productStore.GetAll(ctx)
	require.NoError(t, err)
	return products, productStore
}

func TestMatchCandidateExactCaseInsensitive(t *testing.T) {
	products, _ := seedInventory(t, "Whole Milk", "Bread")

	matched := matchCandidate("whole milk", products)
	assert.Equal(t, ConfidenceExactMatch, matched.Confidence)
	require.NotNil(t, matched.MatchedProductID)
	assert.Equal(t, "whole milk", matched.Name, "the OCR spelling is kept, not the stored one")
}

func TestMatchCandidateExactBeatsSubstring(t *testing.T) {
	// "Milk" matches "Milk" exactly and "Oat Milk" by substring; exact wins
	// regardless of which product changed more recently.
	products, _ := seedInventory(t, "Milk", "Oat Milk")

	matched := matchCandidate("Milk", products)
	assert.Equal(t, ConfidenceExactMatch, matched.Confidence)

	var exactID *models.Product
	for i := range products {
		if products[i].Name == "Milk" {
			exactID = &products[i]
		}
	}
	require.NotNil(t, exactID)
	assert.Equal(t, exactID.ID, *matched.MatchedProductID)
}

func TestMatchCandidateSubstringLatestWins(t *testing.T) {
	products, productStore := seedInventory(t, "Oat Milk", "Soy Milk")
	ctx := context.Background()

	// "Milk" is contained in both; the most recently updated product wins
	matched := matchCandidate("Milk", products)
	assert.Equal(t, ConfidenceSubstring, matched.Confidence)
	assert.Equal(t, products[0].ID, *matched.MatchedProductID)
	assert.Equal(t, "Soy Milk", products[0].Name)

	// touch the older one and the tie flips
	name := "Oat Milk"
	_, err := productStore.Update(ctx, products[1].ID, store.ProductChanges{Name: &name})
	require.NoError(t, err)

	refreshed, err := productStore.GetAll(ctx)
	require.NoError(t, err)
	rematched := matchCandidate("Milk", refreshed)
	assert.Equal(t, ConfidenceSubstring, rematched.Confidence)
	assert.Equal(t, "Oat Milk", refreshed[0].Name)
	assert.Equal(t, refreshed[0].ID, *rematched.MatchedProductID)
}

func TestMatchCandidateNoMatch(t *testing.T) {
	products, _ := seedInventory(t, "Bread")

	matched := matchCandidate("Dragonfruit", products)
	assert.Equal(t, ConfidenceNoMatch, matched.Confidence)
	assert.Nil(t, matched.MatchedProductID)
	assert.False(t, matched.IsCorrect)
}

func TestMatchCandidatesKeepsReceiptOrder(t *testing.T) {
	products, _ := seedInventory(t, "Milk", "Bread")

	candidates := matchCandidates([]string{"Milk", "Bread", "Unknown Item"}, products)
	require.Len(t, candidates, 3)
	assert.Equal(t, "Milk", candidates[0].Name)
	assert.Equal(t, ConfidenceExactMatch, candidates[0].Confidence)
	assert.Equal(t, "Bread", candidates[1].Name)
	assert.Equal(t, ConfidenceExactMatch, candidates[1].Confidence)
	assert.Equal(t, "Unknown Item", candidates[2].Name)
	assert.Equal(t, ConfidenceNoMatch, candidates[2].Confidence)
}

func TestMatchCandidatesEmptyInventory(t *testing.T) {
	candidates := matchCandidates([]string{"Milk"}, nil)
	require.Len(t, candidates, 1)
	assert.Equal(t, ConfidenceNoMatch, candidates[0].Confidence)
}
