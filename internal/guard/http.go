package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPVerifier confirms a token against a verify endpoint. A non-2xx
// response, or a body carrying "valid": false, fails verification.
type HTTPVerifier struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPVerifier creates a verifier for endpoint with the given timeout
func NewHTTPVerifier(endpoint string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Valid *bool  `json:"valid"`
	Error string `json:"error"`
}

// Verify sends the token as a bearer credential with the requested path
func (v *HTTPVerifier) Verify(ctx context.Context, token, path string) error {
	endpoint := v.Endpoint
	if path != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid verify endpoint: %w", err)
		}
		q := u.Query()
		q.Set("path", path)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if body.Error != "" {
			return fmt.Errorf("verify rejected (%d): %s", resp.StatusCode, body.Error)
		}
		return fmt.Errorf("verify rejected with status %d", resp.StatusCode)
	}
	if body.Valid != nil && !*body.Valid {
		return fmt.Errorf("token rejected")
	}
	return nil
}
