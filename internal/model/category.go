package model

// Category is a named classification of projects. A project belongs to at
// most one category.
type Category struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`

	Projects []Project `json:"projects,omitempty" db:"-"`
}
