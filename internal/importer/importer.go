// Package importer talks to the external repository API (GitHub) that
// project metadata is imported from.
//
// The engagement service treats this package as an opaque collaborator: it
// hands over the submitted source URL and receives a filled-in Project, or an
// updated score. How the fields are fetched is this package's business only.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
)

// Importer builds a project's descriptive fields from submission input.
// Declared as an interface so the service layer can be tested with a fake.
type Importer interface {
	BuildProject(ctx context.Context, input model.ProjectInput) (*model.Project, error)
}

// Updater recomputes a project's external metrics (the score).
type Updater interface {
	FetchScore(ctx context.Context, repoURL string) (int, error)
}

// repoStats is the portion of the GitHub repository API response we care
// about. GitHub returns a much larger object — we only unmarshal what we need.
type repoStats struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Stargazers  int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}

// Client fetches repository metadata over the GitHub REST API.
//
// The base URL is configurable so tests can point it at an httptest server
// instead of api.github.com.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. Pass an empty baseURL for the real GitHub API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var (
	_ Importer = (*Client)(nil)
	_ Updater  = (*Client)(nil)
)

// BuildProject constructs a Project from submission input.
//
// The submitted URL names the source repository; everything else is fetched.
// Input may override the name and description (the original submission form
// allowed that), but score and URL always come from the API so the popularity
// metric can't be seeded by the submitter.
func (c *Client) BuildProject(ctx context.Context, input model.ProjectInput) (*model.Project, error) {
	stats, err := c.fetch(ctx, input.URL)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = stats.Name
	}
	description := input.Description
	if description == "" {
		description = stats.Description
	}

	return &model.Project{
		Name:        name,
		Description: description,
		URL:         stats.HTMLURL,
		Score:       stats.Stargazers + stats.Forks,
	}, nil
}

// FetchScore recomputes the score for an already-imported project.
func (c *Client) FetchScore(ctx context.Context, repoURL string) (int, error) {
	stats, err := c.fetch(ctx, repoURL)
	if err != nil {
		return 0, err
	}
	return stats.Stargazers + stats.Forks, nil
}

func (c *Client) fetch(ctx context.Context, repoURL string) (*repoStats, error) {
	owner, repo, err := splitRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo), nil)
	if err != nil {
		return nil, fmt.Errorf("importer: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("importer: calling repository API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound("There was no such repository.")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("importer: repository API returned status %d", resp.StatusCode)
	}

	var stats repoStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("importer: decoding repository response: %w", err)
	}
	return &stats, nil
}

// splitRepoURL extracts the owner and repository name from a GitHub URL such
// as https://github.com/octocat/toolbox (trailing slashes and .git allowed).
func splitRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")

	idx := strings.Index(trimmed, "github.com/")
	if idx < 0 {
		return "", "", apperror.ValidationFailed("url",
			"project URL must point at a GitHub repository")
	}

	parts := strings.Split(trimmed[idx+len("github.com/"):], "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperror.ValidationFailed("url",
			"project URL must look like https://github.com/{owner}/{repo}")
	}
	return parts[0], parts[1], nil
}
