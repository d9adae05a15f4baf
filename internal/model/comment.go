package model

import "time"

// Comment is a user's comment on a project.
//
// Comments are owned exclusively by their authoring user: only the author may
// edit the text, and deletion is restricted to the author unless the service
// is configured to allow moderator-style deletes. Created is stamped once at
// insert time and never changes.
type Comment struct {
	ID        string    `json:"id"         db:"id"`
	Text      string    `json:"text"       db:"text"`
	Created   time.Time `json:"created"    db:"created"`
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
}
