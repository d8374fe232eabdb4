package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KeyValueEntry struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (KeyValueEntry) TableName() string {
	return "kv_entries"
}

type SQLiteKeyValueStore struct {
	db *gorm.DB
}

func NewSQLiteKeyValueStore(db *gorm.DB) *SQLiteKeyValueStore {
	return &SQLiteKeyValueStore{db: db}
}

func (s *SQLiteKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KeyValueEntry
	err := s.db.WithContext(ctx).First(&entry, "name = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQLiteKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	entry := KeyValueEntry{
		Name:      key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
