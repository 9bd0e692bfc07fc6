package db

import (
	"database/sql"
	"time"
)

// Refresh run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

type Champion struct {
	Name      string
	RiotID    string
	Icon      string
	Version   string
	UpdatedAt time.Time
}

type Quote struct {
	ID        int64
	Champion  string
	Position  int64
	Text      string
	TextHash  string
	CreatedAt time.Time
}

type RefreshRun struct {
	ID              string
	Status          string
	ChampionsTotal  int64
	ChampionsFailed int64
	QuotesTotal     int64
	ErrorMessage    sql.NullString
	StartedAt       time.Time
	FinishedAt      sql.NullTime
}

type User struct {
	ID        int64
	Champion  string
	Rate      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
