package models

import (
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Transaction records a sale, or the negative-valued reversal produced by an
// approved return.
type Transaction struct {
	ID                    string                `json:"id"`
	ProductID             string                `json:"productId"`
	ProductName           string                `json:"productName"`
	Quantity              int                   `json:"quantity"`
	Price                 decimal.Decimal       `json:"price"`
	TotalPrice            decimal.Decimal       `json:"totalPrice"`
	Date                  time.Time             `json:"date"`
	CreatedBy             string                `json:"createdBy"`
	CreatedByUsername     string                `json:"createdByUsername"`
	Type                  enums.TransactionType `json:"type,omitempty"`
	OriginalTransactionID string                `json:"originalTransactionId,omitempty"`
}

// IsReturn treats records without a type as sales.
func (t Transaction) IsReturn() bool {
	return t.Type == enums.TransactionTypeReturn
}
