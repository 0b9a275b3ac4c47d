package quests

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trailquest/trailquest-go/pkg/httputil"
)

// Client talks to the quest endpoints. The http.Client is expected to be
// gateway-equipped; this package never touches credentials itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a quests client
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListQuests returns the quests currently open in the user's region
func (c *Client) ListQuests(ctx context.Context) ([]Quest, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/quests", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list quests failed: %w", err)
	}

	var out struct {
		Quests []Quest `json:"quests"`
	}
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Quests, nil
}

// GetQuest returns one quest with its steps
func (c *Client) GetQuest(ctx context.Context, questID string) (*Quest, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/quests/"+questID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get quest failed: %w", err)
	}

	var out Quest
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns the top entries for a quest
func (c *Client) Leaderboard(ctx context.Context, questID string) ([]LeaderboardEntry, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/quests/"+questID+"/leaderboard", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leaderboard failed: %w", err)
	}

	var out struct {
		Entries []LeaderboardEntry `json:"entries"`
	}
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// ReportSighting submits a species observation. The sighting ID is assigned
// client-side so a retried submission stays idempotent server-side.
func (c *Client) ReportSighting(ctx context.Context, s Sighting) (*Sighting, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ObservedAt.IsZero() {
		s.ObservedAt = time.Now().UTC()
	}

	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/sightings", s)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report sighting failed: %w", err)
	}

	var out Sighting
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
