package models

import "time"

// LedgerBlob is one persisted collection: a key such as "products" and its
// JSON-encoded array.
type LedgerBlob struct {
	Key       string    `gorm:"column:key;type:text;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table created by the blob migration.
func (LedgerBlob) TableName() string {
	return "ledger_blobs"
}
