// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package newsletter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.FilteredRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No papers passed the filter.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-5s  %-60s  %-20s  %-10s  %s\n",
		"Rank", "Score", "Title", "Authors", "Published", "Categories")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range records {
		published := r.Published
		if len(published) >= 10 {
			published = published[:10]
		}
		fmt.Fprintf(w, "%-4d  %-5d  %-60s  %-20s  %-10s  %s\n",
			i+1, r.Score, truncate(r.Title, 60), formatAuthors(r.Authors), published, r.Categories)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.FilteredRecord, w io.Writer) error {
	if records == nil {
		records = []types.FilteredRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors string) string {
	first, _, more := strings.Cut(authors, ", ")
	if !more {
		return truncate(first, 20)
	}
	return truncate(first, 14) + " et al."
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
