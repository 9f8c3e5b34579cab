package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"landing-waitlist/pkg/models"
)

// UniqueViolation is the Postgres SQLSTATE PostgREST forwards for duplicate keys
const UniqueViolation = "23505"

// Client defines the interface for inserting rows through the Supabase REST API
type Client interface {
	Insert(ctx context.Context, record *models.SignupRecord) error
	Close() error
}

// APIError is the error body PostgREST returns for a rejected request
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.Status)
	}
	return e.Message
}

// Is lets errors.Is match unique violations against models.ErrAlreadyRegistered
func (e *APIError) Is(target error) bool {
	return target == models.ErrAlreadyRegistered && e.Code == UniqueViolation
}

type clientImpl struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

// NewClient creates a new Supabase client. httpClient may be nil.
func NewClient(baseURL, apiKey, table string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &clientImpl{
		baseURL:    baseURL,
		apiKey:     apiKey,
		table:      table,
		httpClient: httpClient,
	}
}

func (c *clientImpl) Insert(ctx context.Context, record *models.SignupRecord) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(c.table))

	payload, err := json.Marshal([]*models.SignupRecord{record})
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error inserting into %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("supabase: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return apiErr
}

// Close releases idle connections held by the HTTP client
func (c *clientImpl) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
