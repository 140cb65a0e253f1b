// Package remote talks to the hosted data service, a PostgREST endpoint
// (Supabase) exposing the messages, api_keys and projects tables.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"aiteam/internal/models"
)

// ErrRemote matches every non-2xx response from the data service.
var ErrRemote = errors.New("data service error")

// StatusError carries the HTTP status and body of a failed call.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrRemote }

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
	// AccessToken is the signed-in user's JWT; the anon key is used when empty.
	AccessToken string
}

type Client struct {
	http *resty.Client
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("data service URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("data service key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	token := cfg.AccessToken
	if token == "" {
		token = cfg.AnonKey
	}

	c := resty.New().
		SetBaseURL(base+"/rest/v1").
		SetHeader("Content-Type", "application/json").
		SetHeader("apikey", cfg.AnonKey).
		SetAuthToken(token).
		SetTimeout(cfg.Timeout)

	return &Client{http: c}, nil
}

func (c *Client) InsertMessage(ctx context.Context, rec *models.MessageRecord) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rec).
		Post("/messages")
	return check("insert message", resp, err)
}

func (c *Client) UpsertAPIKey(ctx context.Context, key *models.APIKey) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetQueryParam("on_conflict", "user_id,service").
		SetBody(key).
		Post("/api_keys")
	return check("upsert api key", resp, err)
}

func (c *Client) ListActiveAPIKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	var out []models.APIKey
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":    "*",
			"user_id":   "eq." + userID,
			"is_active": "eq.true",
		}).
		SetResult(&out).
		Get("/api_keys")
	if err := check("list api keys", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeactivateAPIKey(ctx context.Context, userID, service string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetQueryParams(map[string]string{
			"user_id": "eq." + userID,
			"service": "eq." + service,
		}).
		SetBody(map[string]bool{"is_active": false}).
		Patch("/api_keys")
	return check("deactivate api key", resp, err)
}

func (c *Client) UpsertProject(ctx context.Context, p *models.Project) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetBody(toProjectRow(p)).
		Post("/projects")
	return check("upsert project", resp, err)
}

func (c *Client) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	var rows []projectRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":  "*",
			"user_id": "eq." + userID,
			"order":   "created_at.asc",
		}).
		SetResult(&rows).
		Get("/projects")
	if err := check("list projects", resp, err); err != nil {
		return nil, err
	}
	out := make([]models.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProject())
	}
	return out, nil
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return &StatusError{Op: op, Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	return nil
}

// projectRow is the snake_case wire shape of the projects table.
type projectRow struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Progress    int           `json:"progress"`
	TeamMembers []string      `json:"team_members"`
	Tasks       []models.Task `json:"tasks,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toProjectRow(p *models.Project) projectRow {
	row := projectRow{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Progress:    p.Progress,
		TeamMembers: p.TeamMembers,
		Tasks:       p.Tasks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !p.Deadline.IsZero() {
		d := p.Deadline
		row.Deadline = &d
	}
	return row
}

func (r projectRow) toProject() models.Project {
	p := models.Project{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		Status:      models.ProjectStatus(r.Status),
		Progress:    r.Progress,
		TeamMembers: r.TeamMembers,
		Tasks:       r.Tasks,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Deadline != nil {
		p.Deadline = *r.Deadline
	}
	return p
}
