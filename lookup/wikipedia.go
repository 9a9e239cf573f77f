package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const wikipediaConfidence = 0.6

type wikipedia struct {
	endpoint string
	client   *http.Client
}

// NewWikipedia creates a Provider over the Wikipedia REST summary API rooted
// at endpoint.
func NewWikipedia(endpoint string, client *http.Client) Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &wikipedia{endpoint: strings.TrimRight(endpoint, "/"), client: client}
}

func (w *wikipedia) Name() string {
	return "Wikipedia"
}

// Fetch returns the first two sentences of the page summary. Missing pages
// yield a nil Finding.
func (w *wikipedia) Fetch(ctx context.Context, concept string) (*Finding, error) {
	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(concept), " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"/page/summary/"+title, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body struct {
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	summary := firstSentences(body.Extract, 2)
	if summary == "" {
		return nil, nil
	}

	return &Finding{
		Summaries:  []string{summary},
		Confidence: wikipediaConfidence,
		Sources:    []string{w.Name()},
		Notes:      "Community-edited source.",
	}, nil
}

func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	end := 0
	for i := 0; i < n; i++ {
		idx := strings.Index(text[end:], ". ")
		if idx < 0 {
			return text
		}
		end += idx + 1
	}
	return strings.TrimSpace(text[:end])
}
