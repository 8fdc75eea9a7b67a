package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/db/models"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the local SQLite file that stands in for browser storage.
type Client struct {
	conn  *gorm.DB
	scope string
}

// Open boots a GORM SQLite connection at path and migrates the shopper state table.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path, scope string, logg *logger.Logger) (*Client, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := conn.WithContext(ctx).AutoMigrate(&models.ShopperState{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating shopper state: %w", err)
	}

	if logg != nil {
		logg.Debug(logg.WithField(ctx, "path", path), "local state store ready")
	}

	return &Client{conn: conn, scope: scope}, nil
}

// Lookup returns the value stored for key and whether it exists.
func (c *Client) Lookup(ctx context.Context, key string) (string, bool, error) {
	var row models.ShopperState
	err := c.conn.WithContext(ctx).
		Where("scope = ? AND key = ?", c.scope, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite lookup %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Put upserts value under key.
func (c *Client) Put(ctx context.Context, key, value string) error {
	row := models.ShopperState{
		Scope:     c.scope,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := c.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.conn.WithContext(ctx).
		Where("scope = ? AND key = ?", c.scope, key).
		Delete(&models.ShopperState{}).Error
	if err != nil {
		return fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	return nil
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
