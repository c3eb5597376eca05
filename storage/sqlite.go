package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"otodom_scraper/models"
)

// SQLiteStore keeps operational data: the cross-run response cache and
// scrape-run bookkeeping. Scraped offers themselves are never stored.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS response_cache (
		key TEXT PRIMARY KEY,
		body BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scrape_runs (
		id TEXT PRIMARY KEY,
		profile TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		offers_found INTEGER DEFAULT 0,
		pages_done INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetOrCompute implements the cache collaborator on top of the
// response_cache table, so identical requests survive process
// restarts.
func (s *SQLiteStore) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM response_cache WHERE key = ?`, key).Scan(&body)
	if err == nil {
		return body, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	body, err = compute()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO response_cache (key, body, created_at) VALUES (?, ?, ?)`,
		key, body, time.Now(),
	); err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}
	return body, nil
}

// PurgeCacheOlderThan drops stale cached responses and returns how
// many were removed.
func (s *SQLiteStore) PurgeCacheOlderThan(age time.Duration) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM response_cache WHERE created_at < ?`, time.Now().Add(-age))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateRun inserts a running scrape record and assigns its id.
func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO scrape_runs (id, profile, started_at, status) VALUES (?, ?, ?, ?)`,
		run.ID, run.Profile, run.StartedAt, run.Status,
	)
	return err
}

// FinishRun records the outcome of a run.
func (s *SQLiteStore) FinishRun(run *models.ScrapeRun) error {
	now := time.Now()
	run.FinishedAt = &now

	_, err := s.db.Exec(
		`UPDATE scrape_runs SET finished_at = ?, status = ?, offers_found = ?, pages_done = ?, errors_count = ? WHERE id = ?`,
		run.FinishedAt, run.Status, run.OffersFound, run.PagesDone, run.ErrorsCount, run.ID,
	)
	return err
}

// RecentRuns lists the latest runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]models.ScrapeRun, error) {
	rows, err := s.db.Query(
		`SELECT id, profile, started_at, finished_at, status, offers_found, pages_done, errors_count
		 FROM scrape_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ScrapeRun
	for rows.Next() {
		var run models.ScrapeRun
		if err := rows.Scan(&run.ID, &run.Profile, &run.StartedAt, &run.FinishedAt,
			&run.Status, &run.OffersFound, &run.PagesDone, &run.ErrorsCount); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
