package model

// Like links a user to a project they liked.
//
// At most one Like may exist per (user, project) pair — the store enforces
// this with a UNIQUE index so the popularity ranking never double-counts a
// user. A second like from the same user is a conflict, not a new row.
type Like struct {
	ID        string `json:"id"         db:"id"`
	UserID    string `json:"user_id"    db:"user_id"`
	ProjectID string `json:"project_id" db:"project_id"`
}
