// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"time"
)

// Result is a typed arXiv search result as produced by the API client.
type Result struct {
	// EntryID is the canonical entry URL (e.g. "http://arxiv.org/abs/2301.07041v1").
	EntryID string

	// Heading is the paper title.
	Heading string

	// Abstract is the paper summary.
	Abstract string

	// AuthorList lists the authors in source order.
	AuthorList []Author

	// CategoryList holds the category codes (primary first).
	CategoryList []string

	// Published and Updated are the Atom timestamps; either may be zero.
	Published time.Time
	Updated   time.Time

	// LinkList holds the entry's link elements.
	LinkList []Link
}

var _ Record = (*Result)(nil)

// Title returns the paper title.
func (r *Result) Title() string {
	if r == nil {
		return ""
	}
	return r.Heading
}

// Summary returns the abstract.
func (r *Result) Summary() string {
	if r == nil {
		return ""
	}
	return r.Abstract
}

// Authors returns author names joined with ", ".
func (r *Result) Authors() string {
	if r == nil {
		return ""
	}
	names := make([]string, 0, len(r.AuthorList))
	for _, a := range r.AuthorList {
		names = append(names, a.Name)
	}
	return joinNonEmpty(names)
}

// Categories returns a copy of the category codes.
func (r *Result) Categories() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.CategoryList...)
}

// PublishedAt prefers Published, falls back to Updated, then Epoch.
func (r *Result) PublishedAt() time.Time {
	if r == nil {
		return Epoch
	}
	switch {
	case !r.Published.IsZero():
		return r.Published.UTC()
	case !r.Updated.IsZero():
		return r.Updated.UTC()
	default:
		return Epoch
	}
}

// Links returns the abstract and PDF URLs, defaulting html to EntryID.
func (r *Result) Links() (string, string) {
	if r == nil {
		return "", ""
	}
	return pickLinks(r.EntryID, r.LinkList)
}

// ID returns the entry URL.
func (r *Result) ID() string {
	if r == nil {
		return ""
	}
	return r.EntryID
}

// Entry converts the result into the loose mapping shape used by snapshots.
func (r *Result) Entry() Entry {
	if r == nil {
		return Entry{}
	}
	e := Entry{
		"id":      r.EntryID,
		"title":   r.Heading,
		"summary": r.Abstract,
	}
	authors := make([]any, 0, len(r.AuthorList))
	for _, a := range r.AuthorList {
		authors = append(authors, map[string]any{"name": a.Name})
	}
	e["author"] = authors

	cats := make([]any, 0, len(r.CategoryList))
	for _, c := range r.CategoryList {
		cats = append(cats, map[string]any{"term": c})
	}
	e["category"] = cats

	if !r.Published.IsZero() {
		e["published"] = r.Published.UTC().Format(time.RFC3339)
	}
	if !r.Updated.IsZero() {
		e["updated"] = r.Updated.UTC().Format(time.RFC3339)
	}

	links := make([]any, 0, len(r.LinkList))
	for _, l := range r.LinkList {
		m := map[string]any{"href": l.Href}
		if l.Rel != "" {
			m["rel"] = l.Rel
		}
		if l.Title != "" {
			m["title"] = l.Title
		}
		if l.Type != "" {
			m["type"] = l.Type
		}
		links = append(links, m)
	}
	e["link"] = links
	return e
}
