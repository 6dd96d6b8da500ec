// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance turns a batch of fetched papers into a ranked digest.
// Each paper is checked for recency, rejected on negative keywords or a
// category miss, scored by keyword hits, and shaped into a FilteredRecord.
// Survivors are ordered by score, then by publication time, both descending.
//
// The package is pure: it performs no I/O and never mutates its inputs.
package relevance

import (
	"sort"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Stats counts what happened to each paper in a filtering run.
type Stats struct {
	Total          int `json:"total" yaml:"total"`
	Stale          int `json:"stale" yaml:"stale"`
	Rejected       int `json:"rejected" yaml:"rejected"`
	BelowThreshold int `json:"below_threshold" yaml:"below_threshold"`
	Failed         int `json:"failed" yaml:"failed"`
	Kept           int `json:"kept" yaml:"kept"`
}

// Option customizes a filtering run.
type Option func(*options)

type options struct {
	now func() time.Time
	log lgr.L
}

// WithClock sets the clock used to compute the recency cutoff.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger for per-paper decisions and run warnings.
func WithLogger(l lgr.L) Option {
	return func(o *options) { o.log = l }
}

// Filter scores papers under cfg and returns the survivors ranked by score,
// then publication time. A nil cfg selects DefaultRelevanceConfig.
func Filter(papers []paper.Record, cfg *types.RelevanceConfig, opts ...Option) []types.FilteredRecord {
	out, _ := FilterWithStats(papers, cfg, opts...)
	return out
}

// FilterWithStats is Filter plus a per-outcome tally.
func FilterWithStats(papers []paper.Record, cfg *types.RelevanceConfig, opts ...Option) ([]types.FilteredRecord, Stats) {
	o := options{now: time.Now, log: lgr.NoOp}
	for _, opt := range opts {
		opt(&o)
	}

	base := types.DefaultRelevanceConfig()
	if cfg != nil {
		base = *cfg
	}
	norm := base.Normalize()
	if len(norm.Keywords) == 0 {
		o.log.Logf("[WARN] relevance config has no keywords, no paper can score above zero")
	}

	cutoff := o.now().UTC().AddDate(0, 0, -norm.Days)

	type ranked struct {
		rec       types.FilteredRecord
		published time.Time
	}
	kept := make([]ranked, 0, len(papers))
	stats := Stats{Total: len(papers)}

	for i, p := range papers {
		rec, published, reason := evaluate(p, norm, cutoff)
		switch reason {
		case ReasonNone:
			kept = append(kept, ranked{rec: rec, published: published})
			continue
		case ReasonStale:
			stats.Stale++
		case ReasonBelowThreshold:
			stats.BelowThreshold++
		case ReasonFailed:
			stats.Failed++
			o.log.Logf("[WARN] skipping malformed paper at index %d", i)
			continue
		default:
			stats.Rejected++
		}
		o.log.Logf("[DEBUG] dropped %q: %s", safeTitle(p), reason)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].rec.Score != kept[j].rec.Score {
			return kept[i].rec.Score > kept[j].rec.Score
		}
		return kept[i].published.After(kept[j].published)
	})

	out := make([]types.FilteredRecord, len(kept))
	for i, k := range kept {
		out[i] = k.rec
	}
	stats.Kept = len(out)

	o.log.Logf("[INFO] filtered %d papers: kept %d, stale %d, rejected %d, below threshold %d, failed %d",
		stats.Total, stats.Kept, stats.Stale, stats.Rejected, stats.BelowThreshold, stats.Failed)
	return out, stats
}

// evaluate runs one paper through recency, scoring, and shaping. Recency is
// checked first because it is the cheapest rejection. A paper published
// exactly at the cutoff is kept. A panic from a malformed record is
// converted into ReasonFailed so the rest of the batch proceeds.
func evaluate(p paper.Record, cfg types.RelevanceConfig, cutoff time.Time) (rec types.FilteredRecord, published time.Time, reason Reason) {
	defer func() {
		if r := recover(); r != nil {
			rec, published, reason = types.FilteredRecord{}, time.Time{}, ReasonFailed
		}
	}()

	if p == nil {
		return rec, published, ReasonFailed
	}

	published = p.PublishedAt()
	if published.Before(cutoff) {
		return rec, published, ReasonStale
	}

	v := Score(p, cfg)
	if v.Rejected {
		return rec, published, v.Reason
	}
	if v.Score < cfg.MinScore {
		return rec, published, ReasonBelowThreshold
	}
	return Shape(p, v.Score, published), published, ReasonNone
}

func safeTitle(p paper.Record) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()
	return paper.Fields(p).Title
}
