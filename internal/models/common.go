// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type StockLevel string

const (
	StockLevelHigh   StockLevel = "high"
	StockLevelMedium StockLevel = "medium"
	StockLevelLow    StockLevel = "low"
	StockLevelEmpty  StockLevel = "empty"
)

// IsValid reports whether the value is one of the four known levels.
func (s StockLevel) IsValid() bool {
	switch s {
	case StockLevelHigh, StockLevelMedium, StockLevelLow, StockLevelEmpty:
		return true
	}
	return false
}

// Next returns the following level in the fixed cycle
// high -> medium -> low -> empty -> high.
func (s StockLevel) Next() StockLevel {
	switch s {
	case StockLevelHigh:
		return StockLevelMedium
	case StockLevelMedium:
		return StockLevelLow
	case StockLevelLow:
		return StockLevelEmpty
	default:
		return StockLevelHigh
	}
}

type ReceiptStatus string

const (
	ReceiptStatusPending    ReceiptStatus = "pending"
	ReceiptStatusProcessing ReceiptStatus = "processing"
	ReceiptStatusCompleted  ReceiptStatus = "completed"
	ReceiptStatusFailed     ReceiptStatus = "failed"
)
