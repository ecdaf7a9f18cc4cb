package session

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entry is one durable key. The table plays the role the browser's
// localStorage played for the original storefront.
type entry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Keystore is a small key-value store backed by an embedded sqlite file.
type Keystore struct {
	db *gorm.DB
}

// OpenKeystore opens (or creates) the store at path. ":memory:" gives a
// throwaway store for tests.
func OpenKeystore(path string) (*Keystore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate keystore: %w", err)
	}
	return &Keystore{db: db}, nil
}

func (k *Keystore) Get(key string) (string, bool, error) {
	var e entry
	if err := k.db.First(&e, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (k *Keystore) Set(key, value string) error {
	e := entry{Key: key, Value: value}
	return k.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&e).Error
}

func (k *Keystore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return k.db.Where("key IN ?", keys).Delete(&entry{}).Error
}

// Close releases the underlying database handle.
func (k *Keystore) Close() error {
	sqlDB, err := k.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
