// internal/services/matching.go
package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
)

// Confidence constants drive the review screen's color coding and must stay
// exactly these values.
const (
	ConfidenceExactMatch = 1.0
	ConfidenceSubstring  = 0.8
	ConfidenceNoMatch    = 0.5
)

// RecognizedProduct is one ephemeral review-set entry. It is never persisted;
// MatchedProductID is a weak reference into the product store.
type RecognizedProduct struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	MatchedProductID *uuid.UUID `json:"matched_product_id,omitempty"`
	Confidence       float64    `json:"confidence"`
	IsCorrect        bool       `json:"is_correct"`
}

// matchCandidate resolves one OCR candidate against the inventory:
// exact case-insensitive name match first (1.0), then substring match with
// the existing name containing the candidate, latest updated_at winning ties
// (0.8), otherwise unmatched (0.5). products must already be ordered by
// updated_at descending.
func matchCandidate(name string, products []models.Product) *RecognizedProduct {
	candidate := &RecognizedProduct{
		ID:         uuid.New(),
		Name:       name,
		Confidence: ConfidenceNoMatch,
	}
	needle := strings.ToLower(strings.TrimSpace(name))

	for i := range products {
		if strings.ToLower(products[i].Name) == needle {
			id := products[i].ID
			candidate.MatchedProductID = &id
			candidate.Confidence = ConfidenceExactMatch
			return candidate
		}
	}

	for i := range products {
		if strings.Contains(strings.ToLower(products[i].Name), needle) {
			id := products[i].ID
			candidate.MatchedProductID = &id
			candidate.Confidence = ConfidenceSubstring
			return candidate
		}
	}

	return candidate
}

func matchCandidates(names []string, products []models.Product) []*RecognizedProduct {
	candidates := make([]*RecognizedProduct, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, matchCandidate(name, products))
	}
	return candidates
}
