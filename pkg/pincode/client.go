package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is the India Post pincode directory
const DefaultBaseURL = "https://api.postalpincode.in"

var (
	ErrInvalidCode = errors.New("pincode must be 6 digits")
	ErrNotFound    = errors.New("no post office found for pincode")
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Place is what a pincode resolves to
type Place struct {
	PinCode     string   `json:"pincode"`
	City        string   `json:"city"`
	District    string   `json:"district"`
	State       string   `json:"state"`
	PostOffices []string `json:"postOffices"`
}

// postalResponse mirrors one element of the India Post API answer:
// [{"Message":"...","Status":"Success","PostOffice":[{...}]}]
type postalResponse struct {
	Message    string `json:"Message"`
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		Block    string `json:"Block"`
		Division string `json:"Division"`
		District string `json:"District"`
		State    string `json:"State"`
		Pincode  string `json:"Pincode"`
	} `json:"PostOffice"`
}

// Client calls the pincode directory over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup resolves code to a place
func (c *Client) Lookup(ctx context.Context, code string) (*Place, error) {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/pincode/%s", c.baseURL, code), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call pincode API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result []postalResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result) == 0 || result[0].Status != "Success" || len(result[0].PostOffice) == 0 {
		return nil, ErrNotFound
	}

	offices := result[0].PostOffice
	first := offices[0]
	place := &Place{
		PinCode:  code,
		City:     first.Block,
		District: first.District,
		State:    first.State,
	}
	// Block is "NA" for many urban offices; the district is the better city then.
	if place.City == "" || strings.EqualFold(place.City, "NA") {
		place.City = first.District
	}
	for _, o := range offices {
		place.PostOffices = append(place.PostOffices, o.Name)
	}
	return place, nil
}
