// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Shape projects an accepted paper into the record handed to delivery.
func Shape(r paper.Record, score int, published time.Time) types.FilteredRecord {
	f := paper.Fields(r)
	html, pdf := r.Links()
	return types.FilteredRecord{
		ID:         r.ID(),
		Title:      f.Title,
		Authors:    f.Authors,
		Categories: strings.Join(r.Categories(), ", "),
		Published:  published.UTC().Format(time.RFC3339),
		LinkHTML:   html,
		LinkPDF:    pdf,
		Summary:    f.Summary,
		Score:      score,
	}
}
