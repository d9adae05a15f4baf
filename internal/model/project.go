package model

import "time"

// Project represents a community-submitted project.
//
// LIFECYCLE:
// A project is created by the submission workflow with Status=false (pending).
// A moderation action flips Status to true (approved) — this transition is
// one-way; nothing in the service ever un-approves a project. Score is a
// derived popularity metric recomputed by the updater from external repository
// stats; no other code path writes it.
//
// The name carries a UNIQUE constraint in the store. Submitting a project
// whose name already exists is rejected with a conflict and creates no row.
type Project struct {
	ID            string    `json:"id"              db:"id"`
	Name          string    `json:"name"            db:"name"`
	Description   string    `json:"description"     db:"description"`
	URL           string    `json:"url"             db:"url"` // source repository URL
	DateAdded     time.Time `json:"date_added"      db:"date_added"`
	Score         int       `json:"score"           db:"score"`
	Status        bool      `json:"status"          db:"status"` // false = pending, true = approved
	SubmittedByID string    `json:"submitted_by_id" db:"submitted_by_id"`

	// Group and Category are optional classifications — a project belongs to
	// at most one of each. Nil means unclassified.
	GroupID    *string `json:"group_id"    db:"group_id"`
	CategoryID *string `json:"category_id" db:"category_id"`

	// LikeCount is derived from the likes table when a single project is
	// read; it is not a stored column and stays zero in bulk listings.
	LikeCount int `json:"like_count" db:"-"`
}

// ProjectInput is the submission payload: the source URLs/metadata handed to
// the importer, which builds the descriptive fields from the external API.
type ProjectInput struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`        // optional override; defaults to the repo name
	Description string `json:"description,omitempty"` // optional override
}
