// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv fetches recent papers from the arXiv search API and
// persists fetched batches as YAML snapshots.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed/atom"

	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const (
	defaultMaxResults = 200
	defaultPageSize   = 100
)

// Query selects which papers to fetch.
type Query struct {
	// Categories are OR-ed together as cat: terms.
	Categories []string
	MaxResults int
	PageSize   int
	// SortBy is relevance, lastUpdatedDate, or submittedDate.
	SortBy string
	// SortOrder is ascending or descending.
	SortOrder string
}

// QueryFromConfig builds a Query from fetch settings.
func QueryFromConfig(cfg types.FetchConfig) Query {
	return Query{
		Categories: cfg.Categories,
		MaxResults: cfg.MaxResults,
		PageSize:   cfg.PageSize,
		SortBy:     cfg.SortBy,
		SortOrder:  cfg.SortOrder,
	}
}

// BuildQuery returns the search_query expression for categories,
// e.g. "cat:cs.AI OR cat:cs.LG".
func BuildQuery(categories []string) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c != "" {
			parts = append(parts, "cat:"+c)
		}
	}
	return strings.Join(parts, " OR ")
}

// Client queries the arXiv API.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// PageDelay is the pause between page requests; arXiv asks for 3s.
	PageDelay time.Duration
	// MaxRetries bounds 429 retries per page (0 selects the httputil default).
	MaxRetries int
	Log        lgr.L
}

// NewClient returns a Client configured from fetch settings.
func NewClient(cfg types.FetchConfig, log lgr.L) *Client {
	if log == nil {
		log = lgr.NoOp
	}
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		PageDelay: cfg.PageDelay,
		Log:       log,
	}
}

// Search pages through the API until MaxResults entries are collected or
// a page comes back short.
func (c *Client) Search(ctx context.Context, q Query) ([]paper.Record, error) {
	expr := BuildQuery(q.Categories)
	if expr == "" {
		return nil, fmt.Errorf("empty arXiv query: no categories configured")
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var out []paper.Record
	for start := 0; len(out) < maxResults; {
		size := min(pageSize, maxResults-len(out))
		page, err := c.fetchPage(ctx, expr, start, size, q)
		if err != nil {
			return out, fmt.Errorf("fetching arXiv page at %d: %w", start, err)
		}
		c.logger().Logf("[DEBUG] arXiv page start=%d size=%d returned %d entries", start, size, len(page))
		for _, r := range page {
			out = append(out, r)
		}
		if len(page) < size {
			break
		}
		start += len(page)

		if c.PageDelay > 0 && len(out) < maxResults {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(c.PageDelay):
			}
		}
	}
	return out, nil
}

func (c *Client) logger() lgr.L {
	if c.Log == nil {
		return lgr.NoOp
	}
	return c.Log
}

func (c *Client) fetchPage(ctx context.Context, expr string, start, size int, q Query) ([]*paper.Result, error) {
	params := url.Values{}
	params.Set("search_query", expr)
	params.Set("start", strconv.Itoa(start))
	params.Set("max_results", strconv.Itoa(size))
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", q.SortOrder)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.logger())
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := (&atom.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	results := make([]*paper.Result, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e == nil {
			continue
		}
		// arXiv reports query errors as a single entry under /api/errors.
		if strings.Contains(e.ID, "/api/errors") {
			return nil, fmt.Errorf("arXiv API error: %s", strings.TrimSpace(e.Summary))
		}
		results = append(results, fromAtom(e))
	}
	return results, nil
}

// fromAtom converts an Atom entry into a typed Result.
func fromAtom(e *atom.Entry) *paper.Result {
	r := &paper.Result{
		EntryID:  strings.TrimSpace(e.ID),
		Heading:  strings.Join(strings.Fields(e.Title), " "),
		Abstract: strings.TrimSpace(e.Summary),
	}
	for _, a := range e.Authors {
		if a != nil {
			r.AuthorList = append(r.AuthorList, paper.Author{Name: strings.TrimSpace(a.Name)})
		}
	}
	for _, c := range e.Categories {
		if c != nil && c.Term != "" {
			r.CategoryList = append(r.CategoryList, c.Term)
		}
	}
	for _, l := range e.Links {
		if l != nil {
			r.LinkList = append(r.LinkList, paper.Link{Href: l.Href, Rel: l.Rel, Title: l.Title, Type: l.Type})
		}
	}
	if e.PublishedParsed != nil {
		r.Published = e.PublishedParsed.UTC()
	}
	if e.UpdatedParsed != nil {
		r.Updated = e.UpdatedParsed.UTC()
	}
	return r
}
