package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dtroode/invitekeeper/internal/model"
)

// Item is one stored key-value pair.
type Item struct {
	Key   string `gorm:"column:name;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (Item) TableName() string {
	return "items"
}

var _ model.Backend = (*Backend)(nil)

// Backend persists items in an SQLite file through gorm.
type Backend struct {
	db *gorm.DB
}

// Open opens the database at dsn (a file path or ":memory:") and migrates the schema.
func Open(dsn string, debug bool) (*Backend, error) {
	conf := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if debug {
		conf.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate items: %w", err)
	}

	return &Backend{db: db}, nil
}

func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	var item Item
	err := b.db.WithContext(ctx).Where("name = ?", key).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return item.Value, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Item{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Remove(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Where("name = ?", key).Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	if err := b.db.WithContext(ctx).Model(&Item{}).Order("name").Pluck("name", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (b *Backend) Usage(ctx context.Context) (int64, error) {
	var used int64
	err := b.db.WithContext(ctx).Model(&Item{}).
		Select("COALESCE(SUM(LENGTH(CAST(name AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)").
		Scan(&used).Error
	if err != nil {
		return 0, fmt.Errorf("failed to measure usage: %w", err)
	}
	return used, nil
}

func (b *Backend) Clear(ctx context.Context) error {
	if err := b.db.WithContext(ctx).Where("1 = 1").Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}
