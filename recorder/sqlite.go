package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"tour-guide-server/logger"
)

// SQLiteRecorder persists snapshot history to a SQLite database.
type SQLiteRecorder struct {
	db *sqlx.DB
	mu sync.Mutex
}

type snapshotRow struct {
	ID            int64  `db:"id"`
	TakenAt       int64  `db:"taken_at"`
	Source        string `db:"source"`
	SpotCount     int    `db:"spot_count"`
	TotalVisitors int    `db:"total_visitors"`
	LowCount      int    `db:"low_count"`
	NormalCount   int    `db:"normal_count"`
	HighCount     int    `db:"high_count"`
	VeryHighCount int    `db:"very_high_count"`
	RecommendedID string `db:"recommended_id"`
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.L().Info("[SQLiteRecorder] opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS congestion_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at        INTEGER NOT NULL,
			source          TEXT NOT NULL,
			spot_count      INTEGER NOT NULL,
			total_visitors  INTEGER NOT NULL,
			low_count       INTEGER NOT NULL,
			normal_count    INTEGER NOT NULL,
			high_count      INTEGER NOT NULL,
			very_high_count INTEGER NOT NULL,
			recommended_id  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON congestion_snapshots(taken_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(ctx context.Context, snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := snapshotRow{
		TakenAt:       snap.TakenAt.UnixMilli(),
		Source:        snap.Source,
		SpotCount:     snap.SpotCount,
		TotalVisitors: snap.TotalVisitors,
		LowCount:      snap.LowCount,
		NormalCount:   snap.NormalCount,
		HighCount:     snap.HighCount,
		VeryHighCount: snap.VeryHighCount,
		RecommendedID: snap.RecommendedID,
	}
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO congestion_snapshots
		(taken_at, source, spot_count, total_visitors, low_count, normal_count, high_count, very_high_count, recommended_id)
		VALUES (:taken_at, :source, :spot_count, :total_visitors, :low_count, :normal_count, :high_count, :very_high_count, :recommended_id)`,
		row)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

func (r *SQLiteRecorder) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM congestion_snapshots
		ORDER BY taken_at DESC, id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}

	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, Snapshot{
			ID:            row.ID,
			TakenAt:       time.UnixMilli(row.TakenAt).UTC(),
			Source:        row.Source,
			SpotCount:     row.SpotCount,
			TotalVisitors: row.TotalVisitors,
			LowCount:      row.LowCount,
			NormalCount:   row.NormalCount,
			HighCount:     row.HighCount,
			VeryHighCount: row.VeryHighCount,
			RecommendedID: row.RecommendedID,
		})
	}
	return out, nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
