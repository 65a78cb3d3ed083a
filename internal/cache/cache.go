// Package cache is the embedded relational store (component C): the single
// place products, variations, sync-status, events, and sessions live
// between replication runs. It is SQLite with write-ahead journaling and
// foreign-key enforcement, opened through gorm the way the teacher repo
// opens its database, but migrated idempotently instead of dropped and
// recreated.
package cache

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalogsync/internal/models"
)

type Cache struct {
	DB *gorm.DB
}

// New opens the SQLite file at path (creating it if missing), enables WAL
// journaling and foreign-key enforcement via DSN pragmas, and migrates the
// schema. Both cmd/api and cmd/worker call this on every boot — there is no
// separate migrate binary, so a fresh checkout only needs the config set to
// come up with a working cache.
func New(path string) (*Cache, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open database: %w", err)
	}

	c := &Cache{DB: db}
	if err := c.migrate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var migratedModels = []interface{}{
	&models.Product{},
	&models.Variation{},
	&models.SyncStatus{},
	&models.Event{},
	&models.Session{},
}

// migrate brings the schema up to date without dropping data: AutoMigrate
// only ever adds missing tables, columns, and indexes. The explicit
// ensureForeignKey/ensureColumn steps below are for additions AutoMigrate doesn't
// know about (e.g. columns that arrive out of band with a hand-written
// ALTER), and both tolerate the "already exists" error the sqlite driver
// reports for a second attempt rather than failing startup over it.
func (c *Cache) migrate() error {
	if err := c.DB.AutoMigrate(migratedModels...); err != nil {
		return fmt.Errorf("cache: migration failed: %w", err)
	}

	// variations.parent_id -> products.id, cascade delete; gorm's
	// AutoMigrate does not infer this constraint from the plain int64
	// field, so it is added explicitly and tolerated if already present.
	if err := c.ensureForeignKey(); err != nil {
		return err
	}

	// exists_remotely shipped after the initial sync_status schema in the
	// original rollout; ensureColumn lets a cache file created before that
	// change pick it up on next boot without a separate migrate step.
	if err := c.ensureColumn("sync_status", "exists_remotely", "BOOLEAN DEFAULT 0"); err != nil {
		return err
	}

	return nil
}

func (c *Cache) ensureForeignKey() error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_variations_parent_id ON variations(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_status_sync_state ON sync_status(sync_state)`,
		`CREATE INDEX IF NOT EXISTS idx_events_processed ON events(processed)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source_product_id ON events(source_product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_action ON events(action)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
	}
	for _, stmt := range stmts {
		if err := c.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cache: failed to create index: %w", err)
		}
	}
	return nil
}

// ensureColumn runs an ALTER TABLE ... ADD COLUMN and swallows the
// duplicate-column error sqlite reports when it has already been applied
// by a previous boot — the idempotent migration path spec.md §4.C calls
// for, kept here as the extension point for columns added after the
// original schema shipped.
func (c *Cache) ensureColumn(table, column, definition string) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	err := c.DB.Exec(stmt).Error
	if err == nil {
		return nil
	}
	if isDuplicateColumnError(err) {
		return nil
	}
	return fmt.Errorf("cache: failed to add column %s.%s: %w", table, column, err)
}

func isDuplicateColumnError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}
