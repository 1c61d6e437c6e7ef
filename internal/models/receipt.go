// internal/models/receipt.go
package models

import "github.com/lib/pq"

// PendingReceipt is a captured receipt image waiting for OCR, queued when the
// device is offline or the provider failed recoverably. ImageData is an opaque
// blob; nothing inspects it before the provider call.
type PendingReceipt struct {
	BaseModel
	ImageData []byte        `json:"-" gorm:"type:bytea;not null"`
	Status    ReceiptStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Error     string        `json:"error,omitempty" gorm:"type:text"`
}

// ReceiptScan records one successful inventory commit: which provider read the
// receipt and which product names were replenished.
type ReceiptScan struct {
	BaseModel
	Provider        string         `json:"provider" gorm:"size:50"`
	ProductNames    pq.StringArray `json:"product_names" gorm:"type:text[]"`
	ProductsUpdated int            `json:"products_updated" gorm:"not null;default:0"`
}
