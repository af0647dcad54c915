package portalclient

import (
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

// Config for the portal backend client
type Config struct {
	// BaseURL is the backend root, e.g. https://partners.example.com
	BaseURL string

	// Timeout bounds every request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Client talks to the franchise portal REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given backend
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrInvalidConfig
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// CreateApplication posts a multipart application body. Exactly one request
// is made.
func (c *Client) CreateApplication(ctx context.Context, body io.Reader, contentType string) (*CreateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/createApplication", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp CreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// GetApplicationByEmail looks up an existing application. It returns
// ErrNotFound when there is none.
func (c *Client) GetApplicationByEmail(ctx context.Context, email string) (*Application, error) {
	endpoint := c.baseURL + "/api/getApplication/email/" + url.PathEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp LookupResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Application == nil {
		return nil, ErrNotFound
	}
	return resp.Application, nil
}

// ValidateInvite checks an agent proposal token.
func (c *Client) ValidateInvite(ctx context.Context, token string) (*Invite, error) {
	endpoint := c.baseURL + "/api/invite/" + url.PathEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var invite Invite
	if err := json.Unmarshal(respBody, &invite); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &invite, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var errResp errorBody
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Code:       errResp.Error,
		Message:    errResp.Message,
	}
}
