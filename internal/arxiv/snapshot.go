// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-digest/internal/paper"
)

// Snapshot is the on-disk form of a fetched batch. Entries are stored as
// loose Atom-style mappings so a later filter run reads them back through
// paper.Entry without re-querying the API.
type Snapshot struct {
	Query   string           `yaml:"query"`
	Fetched time.Time        `yaml:"fetched"`
	Count   int              `yaml:"count"`
	Entries []map[string]any `yaml:"entries"`
}

// WriteSnapshot saves records and the query that produced them to a YAML file.
func WriteSnapshot(path, query string, records []paper.Record) error {
	snap := Snapshot{
		Query:   query,
		Fetched: time.Now().UTC(),
		Entries: make([]map[string]any, 0, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		snap.Entries = append(snap.Entries, toEntry(r))
	}
	snap.Count = len(snap.Entries)

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a previously saved snapshot from disk.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

// Records returns the snapshot entries as paper records.
func (s *Snapshot) Records() []paper.Record {
	out := make([]paper.Record, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, paper.Entry(e))
	}
	return out
}

func toEntry(r paper.Record) map[string]any {
	switch v := r.(type) {
	case *paper.Result:
		return v.Entry()
	case paper.Entry:
		return v
	}

	html, pdf := r.Links()
	e := map[string]any{
		"id":       r.ID(),
		"title":    r.Title(),
		"summary":  r.Summary(),
		"authors":  r.Authors(),
		"category": r.Categories(),
	}
	if t := r.PublishedAt(); !t.Equal(paper.Epoch) {
		e["published"] = t.Format(time.RFC3339)
	}
	var links []any
	if html != "" {
		links = append(links, map[string]any{"href": html, "rel": "alternate"})
	}
	if pdf != "" {
		links = append(links, map[string]any{"href": pdf, "title": "pdf"})
	}
	e["link"] = links
	return e
}
