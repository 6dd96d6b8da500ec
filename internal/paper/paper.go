// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paper gives uniform read access to paper records that arrive in
// two shapes: a typed arXiv Result and a loose Atom-derived Entry mapping.
// Every accessor degrades to an empty value (or the Epoch sentinel for
// timestamps) instead of failing, because record shapes vary by source.
package paper

import (
	"strings"
	"time"
)

// Epoch is returned by PublishedAt when a record carries no usable
// timestamp. It is older than any recency cutoff.
var Epoch = time.Unix(0, 0).UTC()

// Record is the read-only view the relevance filter needs from a paper.
type Record interface {
	// Title returns the paper title.
	Title() string
	// Summary returns the abstract.
	Summary() string
	// Authors returns display names joined with ", ".
	Authors() string
	// Categories returns category codes in source order, duplicates kept.
	Categories() []string
	// PublishedAt returns the publication instant in UTC, or Epoch.
	PublishedAt() time.Time
	// Links returns the abstract page and PDF URLs.
	Links() (html, pdf string)
	// ID returns the canonical identifier.
	ID() string
}

// Author is a paper author.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// Link is an Atom link element.
type Link struct {
	Href  string `json:"href" yaml:"href"`
	Rel   string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
}

// TextFields holds the plain-text fields the scorer matches against.
type TextFields struct {
	Title      string
	Summary    string
	Authors    string
	Categories string
}

// Fields extracts the text fields of r. A nil record yields empty fields.
func Fields(r Record) TextFields {
	if r == nil {
		return TextFields{}
	}
	return TextFields{
		Title:      r.Title(),
		Summary:    r.Summary(),
		Authors:    r.Authors(),
		Categories: strings.Join(r.Categories(), ", "),
	}
}

// pickLinks selects the abstract and PDF links. The first alternate link (or
// any href containing "abs") becomes the html link, otherwise fallback is
// used. The first link titled "pdf" or pointing under /pdf/ becomes the pdf
// link; failing that it is derived from an /abs/ html link.
func pickLinks(fallback string, links []Link) (string, string) {
	var html, pdf string
	for _, l := range links {
		if l.Href == "" {
			continue
		}
		if html == "" && (l.Rel == "alternate" || strings.Contains(l.Href, "abs")) {
			html = l.Href
		}
		if pdf == "" && (l.Title == "pdf" || strings.Contains(l.Href, "/pdf/")) {
			pdf = l.Href
		}
	}
	if html == "" {
		html = fallback
	}
	if pdf == "" && strings.Contains(html, "/abs/") {
		pdf = strings.Replace(html, "/abs/", "/pdf/", 1)
	}
	return html, pdf
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
