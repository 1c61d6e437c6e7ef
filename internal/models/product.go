// internal/models/product.go
package models

// Product is a tracked household item. IsOnShoppingList and IsChecked are
// orthogonal: an item can be checked while off the list (stale but harmless).
type Product struct {
	BaseModel
	Name             string     `json:"name" gorm:"size:255;not null;index"`
	StockLevel       StockLevel `json:"stock_level" gorm:"type:varchar(10);not null;default:'high';index"`
	IsOnShoppingList bool       `json:"is_on_shopping_list" gorm:"not null;default:false;index"`
	IsChecked        bool       `json:"is_checked" gorm:"not null;default:false"`
}
