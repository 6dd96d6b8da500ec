// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Reason says why a paper was dropped from the digest.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonStale          Reason = "stale"
	ReasonNegKeyword     Reason = "negative keyword"
	ReasonCategory       Reason = "category"
	ReasonBelowThreshold Reason = "below threshold"
	ReasonFailed         Reason = "malformed record"
)

// Verdict is the outcome of scoring one paper: either Rejected with a
// Reason, or scored with a non-negative Score.
type Verdict struct {
	Rejected bool
	Reason   Reason
	Score    int
}

// Scored returns an accepting verdict.
func Scored(n int) Verdict { return Verdict{Score: n} }

// Reject returns a rejecting verdict.
func Reject(r Reason) Verdict { return Verdict{Rejected: true, Reason: r} }

// Score evaluates r against a normalized config. Negative keywords are
// checked first and dominate everything else; then the category whitelist;
// then each keyword adds TitleBoost for a title hit and 1 for a summary or
// author hit.
func Score(r paper.Record, cfg types.RelevanceConfig) Verdict {
	f := paper.Fields(r)
	blob := strings.ToLower(f.Title + " " + f.Summary + " " + f.Authors + " " + f.Categories)

	for _, k := range cfg.NegKeywords {
		if k != "" && strings.Contains(blob, k) {
			return Reject(ReasonNegKeyword)
		}
	}

	if len(cfg.CategoryWhitelist) > 0 && !categoryAllowed(r.Categories(), cfg.CategoryWhitelist) {
		return Reject(ReasonCategory)
	}

	title := strings.ToLower(f.Title)
	summary := strings.ToLower(f.Summary)
	authors := strings.ToLower(f.Authors)

	score := 0
	for _, k := range cfg.Keywords {
		if k == "" {
			continue
		}
		if strings.Contains(title, k) {
			score += cfg.TitleBoost
		}
		if strings.Contains(summary, k) || strings.Contains(authors, k) {
			score++
		}
	}
	return Scored(score)
}

// categoryAllowed reports whether any category is whitelisted outright or
// shares a family with a whitelisted code.
func categoryAllowed(cats, whitelist []string) bool {
	allowed := make(map[string]bool, len(whitelist))
	families := make(map[string]bool, len(whitelist))
	for _, w := range whitelist {
		allowed[w] = true
		families[Family(w)] = true
	}
	for _, c := range cats {
		if allowed[c] || families[Family(c)] {
			return true
		}
	}
	return false
}

// Family returns the part of a category code before the first ".",
// e.g. "cs" for "cs.LG". A code without a dot is its own family.
func Family(code string) string {
	family, _, _ := strings.Cut(code, ".")
	return family
}
