// Package models holds the ledger entities as they are persisted inside each
// blob-store collection, plus the GORM row that stores those blobs.
package models

import "github.com/shopspring/decimal"

func init() {
	// Collections are read by browser clients that expect plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
