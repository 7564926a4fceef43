// Package translate calls an external machine-translation HTTP API
// (LibreTranslate-compatible) to translate a post ad hoc into the active
// locale.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds the outbound translation call.
const DefaultTimeout = 10 * time.Second

// Client talks to a single translation endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a translation client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate returns text translated into the target locale. Source language
// is auto-detected by the API.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Query:  text,
		Source: "auto",
		Target: target,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation API returned status %d", resp.StatusCode)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("malformed translation response: %w", err)
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("translation API returned an empty result")
	}

	return out.TranslatedText, nil
}
