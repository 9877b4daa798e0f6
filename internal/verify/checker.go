// Package verify checks a generated sitemap against the live site.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"sitemapgen/internal/log"
	"sitemapgen/internal/sitemap"
)

// Failure is a sitemap entry the site does not serve as listed.
type Failure struct {
	URL    string
	Reason string
}

type Report struct {
	Checked  int
	Failures []Failure
}

func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Checker fetches every <loc> with a shared rate limit and a bounded number
// of requests in flight.
type Checker struct {
	Client    *http.Client
	UserAgent string
	Workers   int
	limiter   *rate.Limiter
}

// NewChecker allows one request per interval. A zero interval disables pacing.
func NewChecker(userAgent string, timeout, interval time.Duration, workers int) *Checker {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if workers < 1 {
		workers = 1
	}
	return &Checker{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Workers:   workers,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Check visits every URL in the set. Failures are reported in sitemap order;
// the returned error is only set when ctx ends the run early.
func (c *Checker) Check(ctx context.Context, set *sitemap.URLSet) (*Report, error) {
	logger := log.WithComponent("verify")

	reasons := make([]string, len(set.URLs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i, u := range set.URLs {
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			reason := c.checkURL(ctx, u.Loc)
			if reason != "" {
				logger.Warn().Str("url", u.Loc).Str("reason", reason).Msg("sitemap entry failed")
			} else {
				logger.Debug().Str("url", u.Loc).Msg("sitemap entry ok")
			}
			mu.Lock()
			reasons[i] = reason
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify sitemap: %w", err)
	}

	report := &Report{Checked: len(set.URLs)}
	for i, reason := range reasons {
		if reason != "" {
			report.Failures = append(report.Failures, Failure{URL: set.URLs[i].Loc, Reason: reason})
		}
	}
	return report, nil
}

func (c *Checker) checkURL(ctx context.Context, loc string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return fmt.Sprintf("invalid url: %v", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Sprintf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	canonical, err := Canonical(resp.Body, loc)
	if err != nil {
		return fmt.Sprintf("parse page: %v", err)
	}
	if canonical != "" && canonical != loc {
		return fmt.Sprintf("canonical is %s", canonical)
	}
	return ""
}
