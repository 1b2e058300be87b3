// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract pulls the user-meaningful fragment out of an in-flight
// tool call's argument blob for live preview.
//
// While a call streams, its arguments are a truncated JSON prefix: the tail
// of the document has not arrived yet, so a strict parse fails by design.
// Extraction therefore runs in two stages: a tolerant parse of well-formed
// JSON first, then a regex pass that recovers known fields from the partial
// text. If neither stage yields a value the raw input is returned unchanged;
// the contract is that a display string is always produced, never an error.
//
// Every function here is pure and side-effect-free. The same input always
// yields the same output, so callers may re-invoke on every render pass;
// memoization is a performance choice, not a correctness requirement.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// =============================================================================
// TOOL FAMILIES
// =============================================================================

// Family classifies a tool for extraction purposes. Families share argument
// vocabulary: every command-family tool carries a "command" field, every
// browser-family tool a "url" or "instruction", and so on.
type Family string

const (
	FamilyCommand Family = "command"
	FamilyFile    Family = "file"
	FamilyBrowser Family = "browser"
	FamilySearch  Family = "search"
	FamilyGeneric Family = "generic"
)

// familyByKey maps canonical tool keys to their extraction family. Keys not
// listed fall back to FamilyGeneric.
var familyByKey = map[string]Family{
	"execute-command":      FamilyCommand,
	"check-command-output": FamilyCommand,
	"terminate-command":    FamilyCommand,

	"create-file":       FamilyFile,
	"edit-file":         FamilyFile,
	"full-file-rewrite": FamilyFile,
	"read-file":         FamilyFile,
	"create-slide":      FamilyFile,
	"edit-slide":        FamilyFile,
	"create-canvas":     FamilyFile,
	"edit-canvas":       FamilyFile,

	"browser-navigate-to": FamilyBrowser,
	"browser-act":         FamilyBrowser,

	"web-search":     FamilySearch,
	"scrape-webpage": FamilySearch,
}

// FamilyFor returns the extraction family for a canonical tool key.
func FamilyFor(key string) Family {
	if f, ok := familyByKey[key]; ok {
		return f
	}
	return FamilyGeneric
}

// =============================================================================
// FIELD TABLES
// =============================================================================

// fieldSpec names one extractable argument field. Fields are probed in
// order; the first present non-empty value wins.
type fieldSpec struct {
	name    string
	label   string // annotated prefix; empty means no prefix
	numeric bool
}

var familyFields = map[Family][]fieldSpec{
	FamilyCommand: {
		{name: "command", label: "Command"},
		{name: "session_name", label: "Session"},
		{name: "seconds", label: "Waiting", numeric: true},
	},
	FamilyFile: {
		{name: "file_contents"},
		{name: "code_edit"},
		{name: "content"},
		{name: "file_path", label: "File"},
		{name: "target_file", label: "File"},
	},
	FamilyBrowser: {
		{name: "instruction", label: "Action"},
		{name: "url", label: "URL"},
		{name: "action", label: "Action"},
	},
	FamilySearch: {
		{name: "query", label: "Query"},
		{name: "url", label: "URL"},
	},
	FamilyGeneric: {
		{name: "content"},
		{name: "text"},
		{name: "instruction"},
		{name: "arguments"},
	},
}

// Partial-field patterns, compiled once per field name. The string pattern
// stops at the last complete escape sequence, so a blob cut mid-escape still
// yields the longest valid prefix.
var (
	partialString = map[string]*regexp.Regexp{}
	partialNumber = map[string]*regexp.Regexp{}
)

func init() {
	for _, fields := range familyFields {
		for _, f := range fields {
			if f.numeric {
				if _, ok := partialNumber[f.name]; !ok {
					partialNumber[f.name] = regexp.MustCompile(`"` + f.name + `"\s*:\s*(\d+)`)
				}
				continue
			}
			if _, ok := partialString[f.name]; !ok {
				partialString[f.name] = regexp.MustCompile(`"` + f.name + `"\s*:\s*"((?:[^"\\]|\\.)*)`)
			}
		}
	}
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Fragment is the extracted preview in both representations. Plain is the
// bare value; Annotated carries a markdown-bold field label for families
// that want one. Callers choose per tool family.
type Fragment struct {
	Plain     string
	Annotated string
}

// Extract returns the preview fragment for a raw argument blob. See the
// package comment for the three-stage contract.
func Extract(raw string, family Family) Fragment {
	if raw == "" {
		return Fragment{}
	}

	fields := familyFields[family]
	if len(fields) == 0 {
		fields = familyFields[FamilyGeneric]
	}

	// Stage 1: well-formed JSON.
	if gjson.Valid(raw) {
		doc := gjson.Parse(raw)
		for _, f := range fields {
			if v := doc.Get(f.name); v.Exists() && v.String() != "" {
				return annotate(f, v.String())
			}
		}
	}

	// Stage 2: partial-field recovery. Expected during streaming: the field's
	// `"key": value` sequence has arrived but the closing brace has not.
	for _, f := range fields {
		if f.numeric {
			if m := partialNumber[f.name].FindStringSubmatch(raw); m != nil {
				return annotate(f, m[1])
			}
			continue
		}
		if m := partialString[f.name].FindStringSubmatch(raw); m != nil && m[1] != "" {
			return annotate(f, unescape(m[1]))
		}
	}

	// Stage 3: last resort, the input verbatim.
	return Fragment{Plain: raw, Annotated: raw}
}

// annotate builds both representations for one extracted value.
func annotate(f fieldSpec, value string) Fragment {
	frag := Fragment{Plain: value, Annotated: value}
	if f.label != "" {
		frag.Annotated = "**" + f.label + ":** " + value
	}
	return frag
}

// unescape decodes JSON string escapes in a partial capture. The capture
// pattern guarantees complete escape sequences, so requoting and decoding is
// safe; if decoding fails anyway the capture is returned as-is.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
