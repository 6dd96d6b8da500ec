// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-digest pipeline:
// stage configuration and the FilteredRecord handed from the relevance filter
// to newsletter delivery.
package types

// FilteredRecord is one accepted paper in a digest. It is produced by the
// relevance filter, sorted, and handed to delivery in a single pass.
type FilteredRecord struct {
	// ID is the canonical identifier of the source paper (arXiv entry URL).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the comma-joined author list in source order.
	Authors string `json:"authors" yaml:"authors"`

	// Categories is the comma-joined category list (e.g. "cs.LG, cs.AI").
	Categories string `json:"categories" yaml:"categories"`

	// Published is the publication instant as an RFC 3339 string in UTC.
	Published string `json:"published" yaml:"published"`

	// LinkHTML points to the abstract page.
	LinkHTML string `json:"linkHtml" yaml:"linkHtml"`

	// LinkPDF points to the PDF, derived from LinkHTML when the source has none.
	LinkPDF string `json:"linkPdf" yaml:"linkPdf"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Score is the keyword relevance score the record was accepted with.
	Score int `json:"score" yaml:"score"`
}
