package model

// Group is a named collection of projects. A project belongs to at most one group.
type Group struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`

	// Projects is populated on single-group reads; omitted from list responses.
	Projects []Project `json:"projects,omitempty" db:"-"`
}
