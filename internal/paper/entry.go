// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Entry is a loosely typed paper record, typically decoded from an Atom feed
// converted to JSON or YAML. Text values may be plain strings or one-level
// wrappers carrying the text under "_" (xml2js) or "value" (feedparser).
type Entry map[string]any

var _ Record = Entry(nil)

// textKeys are the wrapper keys unwrapped by text.
var textKeys = []string{"_", "value"}

// isoLayouts are tried in order when parsing ISO-8601 timestamps. Layouts
// without a zone parse as UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Title returns the title, unwrapping one level of nesting.
func (e Entry) Title() string { return text(e["title"]) }

// Summary returns the summary, unwrapping one level of nesting.
func (e Entry) Summary() string { return text(e["summary"]) }

// Authors resolves the "author" key (a string, a mapping with "name", or a
// list of those), falling back to a plain "authors" value.
func (e Entry) Authors() string {
	if v, ok := e["author"]; ok {
		return joinNonEmpty(collect(v, "name"))
	}
	return joinNonEmpty(collect(e["authors"], "name"))
}

// Categories resolves the "category" key (a string, a mapping with "term",
// or a list of those). Empty codes are dropped; order and duplicates are kept.
func (e Entry) Categories() []string {
	var out []string
	for _, c := range collect(e["category"], "term") {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// PublishedAt prefers "published", then "updated", then Epoch.
func (e Entry) PublishedAt() time.Time {
	if t, ok := toTime(e["published"]); ok {
		return t
	}
	if t, ok := toTime(e["updated"]); ok {
		return t
	}
	return Epoch
}

// Links scans the "link" key (a mapping or a list of mappings) and falls
// back to the "id" value for the html link.
func (e Entry) Links() (string, string) {
	var links []Link
	for _, v := range items(e["link"]) {
		m, ok := asMap(v)
		if !ok {
			continue
		}
		links = append(links, Link{
			Href:  text(m["href"]),
			Rel:   text(m["rel"]),
			Title: text(m["title"]),
			Type:  text(m["type"]),
		})
	}
	return pickLinks(e.ID(), links)
}

// ID returns the "id" value as a string.
func (e Entry) ID() string { return text(e["id"]) }

// text renders v as a string, unwrapping a single level of mapping.
func text(v any) string {
	if m, ok := asMap(v); ok {
		for _, k := range textKeys {
			if inner, ok := m[k]; ok {
				return scalar(inner)
			}
		}
		return ""
	}
	return scalar(v)
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case map[string]any, Entry, []any:
		return ""
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return ""
	}
	return fmt.Sprint(v)
}

// collect resolves a value that is a single item or a list of items, each a
// string or a mapping holding its text under key.
func collect(v any, key string) []string {
	var out []string
	for _, it := range items(v) {
		if m, ok := asMap(it); ok {
			out = append(out, text(m[key]))
			continue
		}
		out = append(out, scalar(it))
	}
	return out
}

func items(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Entry:
		return m, true
	}
	// Any other map shape (map[string]string, map[any]any, ...) is copied
	// with its keys rendered as strings.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// toTime accepts ISO-8601 strings (optionally wrapped) and time.Time values.
// Values without a zone are taken as UTC.
func toTime(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	if m, ok := asMap(v); ok {
		for _, k := range textKeys {
			if inner, ok := m[k]; ok {
				return toTime(inner)
			}
		}
		return time.Time{}, false
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
