// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package newsletter renders a digest as an HTML newsletter and delivers it
// over authenticated SMTP. It also formats digests for the terminal.
package newsletter

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const heading = "arXiv Digest Newsletter"

var pageTmpl = template.Must(template.New("newsletter").Parse(`<html>
  <body>
    <h2>{{.Heading}}</h2>
{{- range .Items}}
    <div style="margin-bottom:20px;">
      <h3><a href="{{.LinkHTML}}" target="_blank">{{.Title}}</a></h3>
      <p><strong>Authors:</strong> {{.Authors}}</p>
      <p><strong>Categories:</strong> {{.Categories}}</p>
      <p><strong>Published:</strong> {{.Published}}</p>
      <p>{{.Summary}}</p>
      <p>
        [<a href="{{.LinkHTML}}" target="_blank">Abstract</a>]
        [<a href="{{.LinkPDF}}" target="_blank">PDF</a>]
      </p>
    </div>
{{- else}}
    <p>No new papers matched this run.</p>
{{- end}}
  </body>
</html>
`))

// strict removes every tag; arXiv abstracts occasionally carry stray markup.
var strict = bluemonday.StrictPolicy()

// plain strips markup from s and returns unescaped text, leaving escaping
// to the template.
func plain(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// Render builds the newsletter HTML for records in the order given.
func Render(records []types.FilteredRecord) (string, error) {
	items := make([]types.FilteredRecord, len(records))
	for i, r := range records {
		r.Title = plain(r.Title)
		r.Authors = plain(r.Authors)
		r.Summary = plain(r.Summary)
		items[i] = r
	}

	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Heading string
		Items   []types.FilteredRecord
	}{heading, items})
	if err != nil {
		return "", fmt.Errorf("rendering newsletter: %w", err)
	}
	return buf.String(), nil
}
