// Package confluence is a minimal client for the Confluence content REST API.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPageNotFound is wrapped by errors for pages that do not exist.
var ErrPageNotFound = errors.New("page not found")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps 404 responses to ErrPageNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrPageNotFound
	}
	return nil
}

// Client talks to one Confluence site with basic auth.
type Client struct {
	BaseURL  string
	Username string
	APIToken string
	client   *http.Client
}

// NewClient creates a client for the site at baseURL.
func NewClient(baseURL, username, apiToken string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		APIToken: apiToken,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// GetPage fetches a page with its storage body, version and space.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s?expand=%s",
		c.BaseURL, url.PathEscape(id), url.QueryEscape("body.storage,version,space"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var page Page
	if err := c.do(req, &page); err != nil {
		return nil, fmt.Errorf("get page %s: %w", id, err)
	}
	return &page, nil
}

// UpdatePage writes a new version of a page.
func (c *Client) UpdatePage(ctx context.Context, u PageUpdate) error {
	payload := updateRequest{
		ID:    u.ID,
		Type:  "page",
		Title: u.Title,
		Body: Body{Storage: Storage{
			Value:          u.Content,
			Representation: "storage",
		}},
		Version: Version{
			Number:    u.Version + 1,
			MinorEdit: u.MinorEdit,
			Message:   u.Message,
		},
	}
	if u.FullWidth {
		payload.Metadata = &metadata{Properties: map[string]property{
			"content-appearance-published": {Value: "full-width"},
			"content-appearance-draft":     {Value: "full-width"},
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/api/content/%s", c.BaseURL, url.PathEscape(u.ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("update page %s: %w", u.ID, err)
	}
	return nil
}

// PageURL returns the display URL of a page. Spaces in the title become
// "+" and a literal "+" is escaped as %2B.
func (c *Client) PageURL(p *Page) string {
	title := strings.ReplaceAll(Quote(p.Title, "/"), "%20", "+")
	return fmt.Sprintf("%s/display/%s/%s", c.BaseURL, p.Space.Key, title)
}

func (c *Client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.Username, c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
