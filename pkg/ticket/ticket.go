// Package ticket files incident tickets with the issue tracker's REST API.
package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"opskit/pkg/config"
	"opskit/pkg/log"
	"opskit/pkg/models"
)

// ErrMissingCredentials is returned when no tracker credentials are
// configured.
var ErrMissingCredentials = errors.New("ticket credentials not configured")

// Client posts incidents to the tracker.
type Client struct {
	cfg        *config.Ticket
	httpClient *http.Client
}

// NewClient builds a ticket client with retrying transport.
func NewClient(cfg *config.Ticket) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.Logger = nil

	return &Client{
		cfg:        cfg,
		httpClient: rc.StandardClient(),
	}
}

// createRequest is the tracker's issue creation payload.
type createRequest struct {
	Fields createFields `json:"fields"`
}

type createFields struct {
	Project     projectRef `json:"project"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	IssueType   typeRef    `json:"issuetype"`
	Priority    *nameRef   `json:"priority,omitempty"`
}

type projectRef struct {
	Key string `json:"key"`
}

type typeRef struct {
	Name string `json:"name"`
}

type nameRef struct {
	Name string `json:"name"`
}

// Create files the incident and returns the new ticket key.
func (c *Client) Create(ctx context.Context, incident models.Incident) (string, error) {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", ErrMissingCredentials
	}

	payload := createRequest{
		Fields: createFields{
			Project:     projectRef{Key: c.cfg.Project},
			Summary:     incident.Summary,
			Description: incident.Description,
			IssueType:   typeRef{Name: "Incident"},
		},
	}
	if incident.Priority != "" {
		payload.Fields.Priority = &nameRef{Name: incident.Priority}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode incident: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ticket request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ticket response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ticket request returned %s: %s", resp.Status, string(respBody))
	}

	var created models.TicketResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("parse ticket response: %w", err)
	}
	if created.Key == "" {
		return "", errors.New("ticket response missing key")
	}

	log.Info().Str("key", created.Key).Msg("Ticket created")
	return created.Key, nil
}
