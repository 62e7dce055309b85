package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is the single merged inventory record for a product.
type Stock struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DateAdded       string          `json:"dateAdded"`
	ExpiryDate      string          `json:"expiryDate"`
	SupplierID      string          `json:"supplierId"`
	SupplierName    string          `json:"supplierName"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}
