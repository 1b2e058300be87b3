// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"path/filepath"
	"strings"

	"github.com/jeranaias/strand-tui/internal/extract"
	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/ui/components"
)

// fileContentLimit caps how many content lines the file card embeds before
// handing off to the shared body clamp.
const fileContentLimit = 30

// FileView renders file reads and writes: the target path as the summary
// and a syntax-highlighted slice of the file content as the body.
func FileView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	path := p.ToolCall.PathArg()
	content := fileContent(p)

	if content == "" && path == "" && !p.IsStreaming {
		return emptyState(title)
	}

	body := ""
	if content != "" {
		block := components.NewCodeBlock(languageForPath(path), firstLines(content, fileContentLimit))
		if p.Width > 8 {
			block.SetMaxWidth(p.Width - 6)
		}
		body = block.Render()
	}

	return card{
		title:     title,
		summary:   path,
		body:      body,
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// fileContent selects the content to display: for finished reads the result
// output, for writes the argument payload, and for in-flight calls the
// partially streamed content.
func fileContent(p Props) string {
	if p.IsStreaming {
		frag := extract.Extract(p.ToolCall.ArgString(), extract.FamilyFile)
		if frag.Plain == p.ToolCall.ArgString() {
			return ""
		}
		return frag.Plain
	}

	for _, key := range []string{"file_contents", "code_edit", "content"} {
		if v := p.ToolCall.StringArg(key); v != "" {
			return v
		}
	}
	if p.ToolResult != nil {
		return p.ToolResult.OutputString()
	}
	return ""
}

// languageForPath guesses the highlight language from the file extension.
// Chroma does its own detection from content when this returns "".
func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".sh", ".bash":
		return "bash"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".sql":
		return "sql"
	default:
		return ""
	}
}
