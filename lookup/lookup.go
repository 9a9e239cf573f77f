// Package lookup fetches short factual summaries about a concept from
// external providers and scores how much they can be trusted.
//
// Providers only report what they find. Client aggregates their findings,
// applies strict-mode filtering and throttles outbound requests.
package lookup

import (
	"context"
	"math"
	"slices"
	"strings"

	"golang.org/x/time/rate"
)

// StrictThreshold is the minimum aggregate confidence accepted in strict
// mode.
const StrictThreshold = 0.4

// disagreementPenalty scales confidence when providers return more distinct
// summaries than there are providers.
const disagreementPenalty = 0.85

// Request asks for information about a concept.
type Request struct {
	Concept string
	Strict  bool
}

// Finding is one provider's answer.
type Finding struct {
	Summaries  []string
	Confidence float64
	Sources    []string
	Notes      string
}

// Provider fetches findings for a concept. Implementations return a nil
// Finding when they have nothing to say.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, concept string) (*Finding, error)
}

// Result is the aggregated answer to a Request.
type Result struct {
	Concept    string
	Summaries  []string
	Confidence float64
	Sources    []string
	Notes      string
}

// Aggregate averages provider confidences, penalizes disagreement and rounds
// to two decimals.
func Aggregate(findings []Finding) float64 {
	if len(findings) == 0 {
		return 0
	}

	var sum float64
	distinct := make(map[string]bool)
	for _, f := range findings {
		sum += f.Confidence
		for _, s := range f.Summaries {
			distinct[s] = true
		}
	}

	base := sum / float64(len(findings))
	if len(findings) > 1 && len(distinct) > len(findings) {
		base *= disagreementPenalty
	}
	return math.Round(base*100) / 100
}

// Client queries providers in order and aggregates their findings.
type Client struct {
	providers []Provider
	limiter   *rate.Limiter
	cache     *Cache
}

// NewClient creates a Client over providers. A nil limiter disables
// throttling.
func NewClient(limiter *rate.Limiter, providers ...Provider) *Client {
	return &Client{providers: providers, limiter: limiter, cache: NewCache()}
}

// Forget drops cached results for concept so the next Fetch asks the
// providers again.
func (c *Client) Forget(concept string) {
	c.cache.Delete(concept)
}

// Fetch asks every provider about req.Concept. Provider errors are treated
// as "no finding". The returned error is non-nil only when ctx is done.
// Results carrying summaries are cached; empty or filtered results are not.
func (c *Client) Fetch(ctx context.Context, req Request) (Result, error) {
	if res, ok := c.cache.Get(req); ok {
		return res, nil
	}

	var findings []Finding

	for _, p := range c.providers {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Result{}, err
			}
		}

		f, err := p.Fetch(ctx, req.Concept)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			continue
		}
		if f != nil {
			findings = append(findings, *f)
		}
	}

	if len(findings) == 0 {
		return Result{Concept: req.Concept, Notes: "No reliable external sources found."}, nil
	}

	confidence := Aggregate(findings)
	if req.Strict && confidence < StrictThreshold {
		return Result{
			Concept:    req.Concept,
			Confidence: confidence,
			Notes:      "Confidence too low under strict mode.",
		}, nil
	}

	res := Result{Concept: req.Concept, Confidence: confidence}
	var notes []string
	for _, f := range findings {
		res.Summaries = append(res.Summaries, f.Summaries...)
		res.Sources = append(res.Sources, f.Sources...)
		if f.Notes != "" {
			notes = append(notes, f.Notes)
		}
	}

	slices.Sort(res.Sources)
	res.Sources = slices.Compact(res.Sources)
	slices.Sort(notes)
	res.Notes = strings.Join(slices.Compact(notes), " | ")

	c.cache.Set(req, res)
	return res, nil
}
