package model

import "time"

// Log is an append-only audit record of import/update events for a project.
//
// A row is written whenever the importer creates a project or the updater
// recomputes its score. Logs are never edited or deleted by this service.
type Log struct {
	ID        string    `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Event     string    `json:"event"      db:"event"` // "imported" or "updated"
	Score     int       `json:"score"      db:"score"` // score recorded at the time of the event
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
