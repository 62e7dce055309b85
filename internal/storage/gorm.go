package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists blobs as rows of the ledger_blobs table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore binds the store to the provided connection.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	return &GormStore{db: db}, nil
}

// WithTx returns a store that reads and writes through tx.
func (s *GormStore) WithTx(tx *gorm.DB) *GormStore {
	if tx == nil {
		return s
	}
	return &GormStore{db: tx}
}

func (s *GormStore) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var rows []models.LedgerBlob
	if err := s.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ledger blobs: %w", err)
	}
	for _, row := range rows {
		out[row.Key] = []byte(row.Value)
	}
	return out, nil
}

func (s *GormStore) Save(ctx context.Context, blobs map[string][]byte) error {
	if len(blobs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(blobs))
	for k := range blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			row := models.LedgerBlob{Key: k, Value: string(blobs[k])}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("save ledger blob %s: %w", k, err)
			}
		}
		return nil
	})
}
