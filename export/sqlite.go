package export

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Index keeps one row per exported episode so datasets can be queried
// without decompressing the shards
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Sink = &Index{}

func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS episodes (
		task TEXT NOT NULL,
		seed INTEGER NOT NULL,
		success INTEGER NOT NULL,
		truncated INTEGER NOT NULL,
		episode_return REAL NOT NULL,
		length INTEGER NOT NULL,
		recalls INTEGER NOT NULL,
		PRIMARY KEY (task, seed)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create episodes table: %w", err)
	}
	return &Index{db: db}, nil
}

func (i *Index) Write(r Record) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, err := i.db.Exec(`INSERT OR REPLACE INTO episodes (task, seed, success, truncated, episode_return, length, recalls)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Task, r.Seed, boolInt(r.Success), boolInt(r.Truncated), r.Return, r.Length, r.Recalls())
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// TaskSummary aggregates the indexed episodes of a task
type TaskSummary struct {
	Task        string
	Episodes    int
	Successes   int
	MeanLength  float64
	MaxLength   int
	MeanRecalls float64
}

func (s TaskSummary) SuccessRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Episodes)
}

// Summary per task, ordered by task name
func (i *Index) Summary() ([]TaskSummary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	rows, err := i.db.Query(`SELECT task, COUNT(*), SUM(success), AVG(length), MAX(length), AVG(recalls)
		FROM episodes GROUP BY task ORDER BY task`)
	if err != nil {
		return nil, fmt.Errorf("select summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]TaskSummary, 0)
	for rows.Next() {
		var s TaskSummary
		if err := rows.Scan(&s.Task, &s.Episodes, &s.Successes, &s.MeanLength, &s.MaxLength, &s.MeanRecalls); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (i *Index) Close() error {
	return i.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
