// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolname maps raw tool identifiers to canonical dispatch keys and
// human-readable display titles.
//
// Tool-producing systems use underscore and hyphen word separators
// interchangeably ("read_file" vs "read-file"); both must resolve to the
// same canonical key. This is the only wire contract between the platform
// and the view layer, so normalization is deterministic and total: every
// string, including the empty string, produces an output.
package toolname

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// CANONICAL KEYS
// =============================================================================

// Normalize converts a raw tool identifier into its canonical dispatch key:
// lowercase with hyphen word separators. The empty string maps to the empty
// key, which the registry resolves to its default entry.
func Normalize(raw string) string {
	key := strings.TrimSpace(strings.ToLower(raw))
	return strings.ReplaceAll(key, "_", "-")
}

// =============================================================================
// DISPLAY NAMES
// =============================================================================

// displayNames holds curated titles for tools whose generated form reads
// poorly. Keys are canonical.
var displayNames = map[string]string{
	"execute-command":     "Execute Command",
	"check-command-output": "Check Command Output",
	"read-file":           "Read File",
	"create-file":         "Create File",
	"edit-file":           "Edit File",
	"full-file-rewrite":   "Rewrite File",
	"delete-file":         "Delete File",
	"browser-navigate-to": "Navigate to Page",
	"browser-act":         "Browser Action",
	"web-search":          "Web Search",
	"scrape-webpage":      "Crawl Webpage",
	"create-slide":        "Create Slide",
	"edit-slide":          "Edit Slide",
	"create-canvas":       "Create Canvas",
	"edit-canvas":         "Edit Canvas",
	"create-tasks":        "Task List",
	"update-tasks":        "Update Tasks",
	"make-phone-call":     "Phone Call",
	"generate-image":      "Generate Image",
	"generate-video":      "Generate Video",
	"ask":                 "Ask",
	"complete":            "Complete Task",
	"default":             "Tool",
}

// strippedPrefixes are dropped from generated titles; they identify the
// tool's transport, not what it does.
var strippedPrefixes = []string{"mcp-", "sb-"}

var titleCaser = cases.Title(language.English)

// DisplayName returns a human-readable title for a raw tool identifier.
// Curated names win; otherwise known prefixes are stripped and each word is
// title-cased.
func DisplayName(raw string) string {
	key := Normalize(raw)
	if name, ok := displayNames[key]; ok {
		return name
	}

	for _, prefix := range strippedPrefixes {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			key = key[len(prefix):]
			break
		}
	}

	if key == "" {
		return displayNames["default"]
	}
	return titleCaser.String(strings.ReplaceAll(key, "-", " "))
}
