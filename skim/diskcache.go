package skim

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
	_ "modernc.org/sqlite"
)

// DiskCache persists aggregated zone-pair tables keyed by a source-file
// fingerprint so that reloading a large travel-time matrix skips
// re-aggregation. It accelerates ingestion only; the raw input formats
// stay owned by the data provider.
type DiskCache struct {
	db *sql.DB
}

const diskCacheSchema = `
CREATE TABLE IF NOT EXISTS skim_meta (
	fingerprint TEXT NOT NULL,
	rule        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (fingerprint, rule)
);
CREATE TABLE IF NOT EXISTS zone_pairs (
	fingerprint TEXT NOT NULL,
	rule        TEXT NOT NULL,
	origin      INTEGER NOT NULL,
	destination INTEGER NOT NULL,
	minutes     REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_zone_pairs_key ON zone_pairs (fingerprint, rule);
`

// OpenDiskCache opens (creating if needed) the aggregation cache at path.
func OpenDiskCache(path string) (*DiskCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open skim cache: %w", err)
	}
	if _, err := db.Exec(diskCacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init skim cache schema: %w", err)
	}
	return &DiskCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *DiskCache) Close() error { return c.db.Close() }

// Load returns the cached zone pairs for a fingerprint and rule, or
// ok=false on a cache miss.
func (c *DiskCache) Load(fingerprint string, rule AggregateRule) (map[Pair]float64, bool, error) {
	var createdAt int64
	err := c.db.QueryRow(
		`SELECT created_at FROM skim_meta WHERE fingerprint = ? AND rule = ?`,
		fingerprint, string(rule),
	).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query skim cache meta: %w", err)
	}

	rows, err := c.db.Query(
		`SELECT origin, destination, minutes FROM zone_pairs WHERE fingerprint = ? AND rule = ?`,
		fingerprint, string(rule),
	)
	if err != nil {
		return nil, false, fmt.Errorf("query skim cache pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[Pair]float64, 1024)
	for rows.Next() {
		var origin, destination int64
		var minutes float64
		if err := rows.Scan(&origin, &destination, &minutes); err != nil {
			return nil, false, fmt.Errorf("scan skim cache pair: %w", err)
		}
		pairs[Pair{
			Origin:      zoning.ZoneID(origin),
			Destination: zoning.ZoneID(destination),
		}] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate skim cache pairs: %w", err)
	}
	return pairs, true, nil
}

// Save stores a built store's zone pairs under a fingerprint and rule,
// replacing any previous entry for the same key.
func (c *DiskCache) Save(fingerprint string, s *Store) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin skim cache save: %w", err)
	}
	defer tx.Rollback()

	rule := string(s.Rule())
	if _, err := tx.Exec(`DELETE FROM zone_pairs WHERE fingerprint = ? AND rule = ?`, fingerprint, rule); err != nil {
		return fmt.Errorf("clear skim cache pairs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM skim_meta WHERE fingerprint = ? AND rule = ?`, fingerprint, rule); err != nil {
		return fmt.Errorf("clear skim cache meta: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO zone_pairs (fingerprint, rule, origin, destination, minutes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare skim cache insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	s.ForEachPair(func(pair Pair, minutes float64) {
		if insertErr != nil {
			return
		}
		_, insertErr = stmt.Exec(fingerprint, rule, int64(pair.Origin), int64(pair.Destination), minutes)
	})
	if insertErr != nil {
		return fmt.Errorf("insert skim cache pair: %w", insertErr)
	}

	if _, err := tx.Exec(
		`INSERT INTO skim_meta (fingerprint, rule, created_at) VALUES (?, ?, ?)`,
		fingerprint, rule, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert skim cache meta: %w", err)
	}
	return tx.Commit()
}

// Fingerprint derives a cache key from a source file's path, size and
// modification time. Any change to the file invalidates its cache entry.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	return hex.EncodeToString(h.Sum(nil)), nil
}
