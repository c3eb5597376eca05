package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun is the operational record of one scrape invocation. Runs
// are bookkeeping only; offers themselves are never persisted.
type ScrapeRun struct {
	ID          string     `json:"id" db:"id"`
	Profile     string     `json:"profile" db:"profile"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at" db:"finished_at"`
	Status      RunStatus  `json:"status" db:"status"`
	OffersFound int        `json:"offers_found" db:"offers_found"`
	PagesDone   int        `json:"pages_done" db:"pages_done"`
	ErrorsCount int        `json:"errors_count" db:"errors_count"`
}
