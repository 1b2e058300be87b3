// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/jeranaias/strand-tui/internal/extract"
	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
	"github.com/jeranaias/strand-tui/internal/util"
)

// maxSearchResults caps the result rows shown on the card.
const maxSearchResults = 5

// SearchView renders web searches and page crawls: the query (or crawled
// URL) plus the leading result titles.
func SearchView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	query := searchQuery(p)

	results := searchResults(p)
	var body strings.Builder
	if query != "" {
		body.WriteString("“" + query + "”")
	}
	for i, r := range results {
		if i >= maxSearchResults {
			body.WriteString("\n... (" + util.IntToString(len(results)-maxSearchResults) + " more results)")
			break
		}
		body.WriteString("\n" + r)
	}

	if body.Len() == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	summary := ""
	if n := len(results); n > 0 {
		summary = util.IntToString(n) + " results"
	}

	return card{
		title:     title,
		summary:   summary,
		body:      body.String(),
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// searchQuery pulls the query or URL argument, tolerating partial payloads
// while streaming.
func searchQuery(p Props) string {
	for _, key := range []string{"query", "url"} {
		if v := p.ToolCall.StringArg(key); v != "" {
			return v
		}
	}
	if p.IsStreaming {
		frag := extract.Extract(p.ToolCall.ArgString(), extract.FamilySearch)
		if frag.Plain != p.ToolCall.ArgString() {
			return frag.Plain
		}
	}
	return ""
}

// searchResults decodes the result list from the output. The platform
// returns `{"results": [{"title": ..., "url": ...}, ...]}`; truncated or
// unexpected shapes yield no rows rather than an error.
func searchResults(p Props) []string {
	out, ok := outputMap(p)
	if !ok {
		return nil
	}
	items, _ := out["results"].([]any)
	rows := make([]string, 0, len(items))
	for _, item := range items {
		entry, _ := item.(map[string]any)
		if entry == nil {
			continue
		}
		title, _ := entry["title"].(string)
		url, _ := entry["url"].(string)
		switch {
		case title != "" && url != "":
			rows = append(rows, title+" - "+styles.RenderLink(url))
		case title != "":
			rows = append(rows, title)
		case url != "":
			rows = append(rows, styles.RenderLink(url))
		}
	}
	return rows
}
