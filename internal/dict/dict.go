// Package dict is a lightweight HTTP client for the dictionary-lookup
// service. A miss is not an error: Lookup returns (nil, nil) so callers can
// show a "no entry found" state instead of an error banner. Retries, if
// any, belong to the service side.
package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Entry is one resolved dictionary entry.
type Entry struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic"`
	Meanings []Meaning `json:"meanings"`
}

// Meaning groups definitions under a part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// Definition is a single sense of a word.
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Client talks to a dictionaryapi.dev-compatible endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a dictionary client for the given base URL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Lookup resolves a surface form in the given learning language. It returns
// (nil, nil) when the dictionary has no entry.
func (c *Client) Lookup(ctx context.Context, surfaceForm, learningLanguage string) (*Entry, error) {
	path := fmt.Sprintf("%s/api/v2/entries/%s/%s",
		c.baseURL, url.PathEscape(learningLanguage), url.PathEscape(surfaceForm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dictionary error %d: %s", resp.StatusCode, string(body))
	}

	// The endpoint returns an array of entries; the first one wins.
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
