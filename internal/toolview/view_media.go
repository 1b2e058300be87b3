// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
	"github.com/jeranaias/strand-tui/internal/util"
)

// MediaView renders image and video generation results. Prompts are paired
// with returned generations by index; the backend does not guarantee
// per-prompt status, so prompts beyond the returned count are reported as
// "no result returned" rather than assumed failed.
func MediaView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	prompts := mediaPrompts(p)
	urls := mediaGenerations(p)

	if len(prompts) == 0 && len(urls) == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	var body strings.Builder
	for i, prompt := range prompts {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString("“" + util.TruncateRunes(prompt, 60) + "”")
		if i < len(urls) {
			body.WriteString("\n  " + styles.RenderLink(urls[i]))
		} else if !p.IsStreaming {
			body.WriteString("\n  (no result returned)")
		}
	}
	// Generations beyond the prompt list still get shown.
	for i := len(prompts); i < len(urls); i++ {
		if body.Len() > 0 {
			body.WriteString("\n")
		}
		body.WriteString(styles.RenderLink(urls[i]))
	}

	summary := util.IntToString(len(urls)) + "/" + util.IntToString(max(len(prompts), len(urls))) + " generated"
	if len(prompts) == 0 && len(urls) == 0 {
		summary = ""
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

// mediaPrompts collects the prompt argument, which arrives as a single
// string or a list.
func mediaPrompts(p Props) []string {
	args := p.ToolCall.Args()
	if s, _ := args["prompt"].(string); s != "" {
		return []string{s}
	}
	list, _ := args["prompts"].([]any)
	prompts := make([]string, 0, len(list))
	for _, item := range list {
		if s, _ := item.(string); s != "" {
			prompts = append(prompts, s)
		}
	}
	return prompts
}

// mediaGenerations collects generated asset URLs from the result output.
func mediaGenerations(p Props) []string {
	out, ok := outputMap(p)
	if !ok {
		return nil
	}
	if s, _ := out["url"].(string); s != "" {
		return []string{s}
	}
	list, _ := out["generations"].([]any)
	if list == nil {
		list, _ = out["urls"].([]any)
	}
	urls := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if v != "" {
				urls = append(urls, v)
			}
		case map[string]any:
			if s, _ := v["url"].(string); s != "" {
				urls = append(urls, s)
			}
		}
	}
	return urls
}
