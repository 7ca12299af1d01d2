package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/store"

	_ "modernc.org/sqlite"
)

const snapshotVersion = 1

// ToSQLite writes the dashboard's filtered records and buckets into a fresh
// SQLite file at path, replacing any existing file.
func ToSQLite(d store.Dashboard, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old snapshot: %w", err)
	}

	db, err := openSnapshot(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if err := writeMeta(tx, d); err != nil {
		return err
	}
	if err := writeRecords(tx, d.Records); err != nil {
		return err
	}
	charts := map[string]report.ChartData{
		"overview":  d.Overview,
		"detail":    d.Detail,
		"breakdown": d.Breakdown,
	}
	for name, c := range charts {
		if err := writeBuckets(tx, name, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func openSnapshot(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	if err := migrateSnapshot(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrateSnapshot(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= snapshotVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,
		serial_date REAL,
		level0      TEXT NOT NULL DEFAULT '',
		level1      TEXT NOT NULL DEFAULT '',
		level2      TEXT NOT NULL DEFAULT '',
		measure     REAL NOT NULL,
		duration    TEXT NOT NULL DEFAULT '',
		outcome     TEXT NOT NULL DEFAULT '',
		plan        TEXT NOT NULL DEFAULT '',
		progress    TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);

	CREATE TABLE IF NOT EXISTS buckets (
		chart  TEXT NOT NULL,
		rank   INTEGER NOT NULL,
		label  TEXT NOT NULL,
		total  REAL NOT NULL,
		color  TEXT NOT NULL,
		PRIMARY KEY (chart, rank)
	);
	`
	if _, err := db.Exec(ddl); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", snapshotVersion))
	return err
}

func writeMeta(tx *sql.Tx, d store.Dashboard) error {
	meta := map[string]string{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"schema":      d.Schema.Name,
		"unit":        d.Schema.Unit.String(),
		"range":       d.Range.String(),
		"level":       d.LevelName,
		"project":     d.Project,
		"task":        d.Task,
		"total":       strconv.FormatFloat(d.Total, 'f', -1, 64),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %q: %w", k, err)
		}
	}
	return nil
}

func writeRecords(tx *sql.Tx, records []record.Record) error {
	stmt, err := tx.Prepare(`
		INSERT INTO records (date, serial_date, level0, level1, level2, measure, duration, outcome, plan, progress)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare records: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var serialDate any
		if v, ok := r.SerialDate(); ok {
			serialDate = v
		}
		_, err := stmt.Exec(
			r.Date.Format("2006-01-02T15:04:05"),
			serialDate,
			r.Label(0), r.Label(1), r.Label(2),
			r.Measure,
			r.Attributes[record.AttrDuration],
			r.Attributes[record.AttrOutcome],
			r.Attributes[record.AttrPlan],
			r.Attributes[record.AttrProgress],
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

func writeBuckets(tx *sql.Tx, chart string, c report.ChartData) error {
	for i := range c.Labels {
		_, err := tx.Exec(
			`INSERT INTO buckets (chart, rank, label, total, color) VALUES (?, ?, ?, ?, ?)`,
			chart, i+1, c.Labels[i], c.Values[i], c.Colors[i],
		)
		if err != nil {
			return fmt.Errorf("insert %s bucket: %w", chart, err)
		}
	}
	return nil
}
