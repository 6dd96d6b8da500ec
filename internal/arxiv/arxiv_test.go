// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const feedHeader = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>arXiv Query</title>
  <id>http://arxiv.org/api/query</id>
  <updated>2026-10-18T00:00:00-04:00</updated>
`

func entryXML(n int) string {
	return fmt.Sprintf(`  <entry>
    <id>http://arxiv.org/abs/2610.%05dv1</id>
    <updated>2026-10-17T12:00:00Z</updated>
    <published>2026-10-16T12:00:00Z</published>
    <title>Paper %d:
      A Multiline  Title</title>
    <summary>  Abstract %d.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2610.%05dv1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2610.%05dv1" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="stat.ML" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
`, n, n, n, n, n)
}

func feedXML(from, count int) string {
	var b strings.Builder
	b.WriteString(feedHeader)
	for i := 0; i < count; i++ {
		b.WriteString(entryXML(from + i))
	}
	b.WriteString("</feed>\n")
	return b.String()
}

func withServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() {
		apiBase = old
		ts.Close()
	})
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "cat:cs.AI OR cat:cs.LG", BuildQuery([]string{"cs.AI", " cs.LG ", ""}))
	assert.Equal(t, "", BuildQuery(nil))
}

func TestSearchParsesEntries(t *testing.T) {
	var gotQuery, gotUA string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "lastUpdatedDate", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "descending", r.URL.Query().Get("sortOrder"))
		fmt.Fprint(w, feedXML(1, 2))
	})

	c := &Client{HTTP: http.DefaultClient, UserAgent: "test/0.1"}
	recs, err := c.Search(context.Background(), Query{
		Categories: []string{"cs.AI", "cs.LG"},
		MaxResults: 10,
		SortBy:     "lastUpdatedDate",
		SortOrder:  "descending",
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "cat:cs.AI OR cat:cs.LG", gotQuery)
	assert.Equal(t, "test/0.1", gotUA)

	r, ok := recs[0].(*paper.Result)
	require.True(t, ok, "client returns typed results")
	assert.Equal(t, "http://arxiv.org/abs/2610.00001v1", r.ID())
	assert.Equal(t, "Paper 1: A Multiline Title", r.Title())
	assert.Equal(t, "Abstract 1.", r.Summary())
	assert.Equal(t, "Ada Lovelace, Alan Turing", r.Authors())
	assert.Equal(t, []string{"cs.LG", "stat.ML"}, r.Categories())
	assert.True(t, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC).Equal(r.PublishedAt()))

	html, pdf := r.Links()
	assert.Equal(t, "http://arxiv.org/abs/2610.00001v1", html)
	assert.Equal(t, "http://arxiv.org/pdf/2610.00001v1", pdf)
}

func TestSearchPaginates(t *testing.T) {
	var calls int32
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		size, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		// 5 entries exist in total.
		count := min(size, max(0, 5-start))
		fmt.Fprint(w, feedXML(start, count))
	})

	c := &Client{HTTP: http.DefaultClient}
	recs, err := c.Search(context.Background(), Query{Categories: []string{"cs.LG"}, MaxResults: 10, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, recs, 5)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "http://arxiv.org/abs/2610.00004v1", recs[4].ID())
}

func TestSearchRetriesThrottledPage(t *testing.T) {
	var calls int32
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, feedXML(1, 1))
	})

	var logs []string
	c := &Client{HTTP: http.DefaultClient, Log: lgr.Func(func(format string, args ...any) {
		logs = append(logs, fmt.Sprintf(format, args...))
	})}
	recs, err := c.Search(context.Background(), Query{Categories: []string{"cs.LG"}, MaxResults: 5})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, strings.Join(logs, "\n"), "[WARN]", "backoff is reported through the client logger")
}

func TestSearchStopsAtMaxResults(t *testing.T) {
	var sizes []string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		size, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		sizes = append(sizes, r.URL.Query().Get("max_results"))
		fmt.Fprint(w, feedXML(start, size))
	})

	c := &Client{HTTP: http.DefaultClient}
	recs, err := c.Search(context.Background(), Query{Categories: []string{"cs.LG"}, MaxResults: 5, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, recs, 5)
	assert.Equal(t, []string{"3", "2"}, sizes)
}

func TestSearchErrors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		_, err := (&Client{}).Search(context.Background(), Query{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty arXiv query")
	})

	t.Run("http error", func(t *testing.T) {
		withServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
		_, err := (&Client{}).Search(context.Background(), Query{Categories: []string{"cs.LG"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 400")
	})

	t.Run("api error entry", func(t *testing.T) {
		withServer(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, feedHeader+`<entry><id>http://arxiv.org/api/errors#incorrect_id_format</id><title>Error</title><summary>incorrect id format</summary></entry></feed>`)
		})
		_, err := (&Client{}).Search(context.Background(), Query{Categories: []string{"cs.LG"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect id format")
	})

	t.Run("context cancelled between pages", func(t *testing.T) {
		withServer(t, func(w http.ResponseWriter, r *http.Request) {
			start, _ := strconv.Atoi(r.URL.Query().Get("start"))
			fmt.Fprint(w, feedXML(start, 1))
		})
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		c := &Client{PageDelay: 10 * time.Second}
		recs, err := c.Search(ctx, Query{Categories: []string{"cs.LG"}, MaxResults: 3, PageSize: 1})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Len(t, recs, 1)
	})
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := types.DefaultPipelineConfig().Fetch
	c := NewClient(cfg, nil)
	assert.Equal(t, cfg.Timeout, c.HTTP.Timeout)
	assert.Equal(t, "arxiv-digest/0.1", c.UserAgent)
	assert.Equal(t, 3*time.Second, c.PageDelay)

	q := QueryFromConfig(cfg)
	assert.Equal(t, 200, q.MaxResults)
	assert.Contains(t, BuildQuery(q.Categories), "cat:q-fin.EC")
}

// --- Snapshot ---

func TestSnapshotRoundTrip(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedXML(7, 2))
	})
	recs, err := (&Client{}).Search(context.Background(), Query{Categories: []string{"cs.LG"}, MaxResults: 2})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "papers.yaml")
	require.NoError(t, WriteSnapshot(path, "cat:cs.LG", recs))

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "cat:cs.LG", snap.Query)
	assert.Equal(t, 2, snap.Count)

	loaded := snap.Records()
	require.Len(t, loaded, 2)
	for i := range recs {
		_, isEntry := loaded[i].(paper.Entry)
		assert.True(t, isEntry, "snapshots load as loose mappings")
		assert.Equal(t, paper.Fields(recs[i]), paper.Fields(loaded[i]))
		assert.Equal(t, recs[i].ID(), loaded[i].ID())
		assert.True(t, recs[i].PublishedAt().Equal(loaded[i].PublishedAt()))

		wantHTML, wantPDF := recs[i].Links()
		gotHTML, gotPDF := loaded[i].Links()
		assert.Equal(t, wantHTML, gotHTML)
		assert.Equal(t, wantPDF, gotPDF)
	}
}

func TestSnapshotKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loose.yaml")
	in := []paper.Record{
		paper.Entry{"id": "x1", "title": map[string]any{"_": "Wrapped"}, "published": "2026-10-01T00:00:00Z"},
		nil,
	}
	require.NoError(t, WriteSnapshot(path, "", in))

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, snap.Records(), 1)
	assert.Equal(t, "Wrapped", snap.Records()[0].Title())
}

func TestReadSnapshotMissing(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading snapshot")
}
