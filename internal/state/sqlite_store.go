package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore persists per-mailbox sync watermarks in a local SQLite file.
// The watermark only moves forward: a fetch batch that fails before commit
// leaves the previous UID in place so the next run re-covers the gap.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the state database.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_watermarks (
			mailbox TEXT PRIMARY KEY,
			last_uid INTEGER NOT NULL,
			last_run TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create watermark table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get returns the stored watermark for a mailbox, or nil when the mailbox
// has never completed a batch.
func (s *SQLiteStore) Get(ctx context.Context, mailbox string) (*core.SyncWatermark, error) {
	var lastUID uint32
	var lastRun string

	err := s.db.QueryRowContext(ctx, `
		SELECT last_uid, last_run
		FROM sync_watermarks
		WHERE mailbox = ?
	`, mailbox).Scan(&lastUID, &lastRun)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read watermark: %v", core.ErrPersistence, err)
	}

	wm := &core.SyncWatermark{Mailbox: mailbox, LastUID: lastUID}
	if ts, perr := time.Parse(time.RFC3339, lastRun); perr == nil {
		wm.LastRun = ts
	}
	return wm, nil
}

// Advance records uid as the new watermark. A uid at or below the stored
// one is ignored so partial re-fetches cannot roll the cursor back.
func (s *SQLiteStore) Advance(ctx context.Context, mailbox string, uid uint32) error {
	current, err := s.Get(ctx, mailbox)
	if err != nil {
		return err
	}
	if current != nil && uid <= current.LastUID {
		s.logger.Debug("Watermark unchanged",
			zap.String("mailbox", mailbox),
			zap.Uint32("stored", current.LastUID),
			zap.Uint32("offered", uid))
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_watermarks (mailbox, last_uid, last_run)
		VALUES (?, ?, ?)
	`, mailbox, uid, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to advance watermark: %v", core.ErrPersistence, err)
	}

	s.logger.Info("Advanced sync watermark",
		zap.String("mailbox", mailbox),
		zap.Uint32("last_uid", uid))
	return nil
}

// Reset deletes one mailbox's watermark, forcing a full resync on the next
// run.
func (s *SQLiteStore) Reset(ctx context.Context, mailbox string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sync_watermarks
		WHERE mailbox = ?
	`, mailbox)
	if err != nil {
		return fmt.Errorf("%w: failed to reset watermark: %v", core.ErrPersistence, err)
	}
	s.logger.Info("Reset sync watermark", zap.String("mailbox", mailbox))
	return nil
}

// ResetAll clears every watermark.
func (s *SQLiteStore) ResetAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_watermarks`)
	if err != nil {
		return fmt.Errorf("%w: failed to reset watermarks: %v", core.ErrPersistence, err)
	}
	s.logger.Info("Reset all sync watermarks")
	return nil
}

// Stop closes the database.
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close state database", zap.Error(err))
	}
}
