// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered community member.
//
// We use GitHub OAuth as the identity provider, so the primary external
// identifier is the GitHub user ID (an integer). We still generate our own
// internal string ID (xid) for consistency with the other entities and to
// avoid tying our primary keys to a third-party's numbering scheme.
//
// WHY GitHubID int64?
// GitHub user IDs are integers (e.g. 1234567). Using int64 avoids overflow
// for large GitHub account numbers. The UNIQUE constraint on github_id in the
// DB ensures one GitHub account maps to exactly one app account. The login
// (username) also carries a UNIQUE constraint — one record per external
// identity, looked up by name during session resolution.
type User struct {
	ID         string    `json:"id"          db:"id"`
	GitHubID   int64     `json:"github_id"   db:"github_id"`   // GitHub's numeric user ID
	Login      string    `json:"github_name" db:"login"`       // GitHub username, e.g. "octocat"
	ProfileURL string    `json:"github_url"  db:"profile_url"` // Public GitHub profile URL
	AvatarURL  string    `json:"avatar_url"  db:"avatar_url"`  // Profile picture URL
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}
