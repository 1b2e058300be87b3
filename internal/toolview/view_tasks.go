// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
	"github.com/jeranaias/strand-tui/internal/util"
)

// TasksView renders the agent's task list: sections with checkbox rows and
// a completed/total summary.
func TasksView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	sections := taskSections(p)

	total, done := 0, 0
	var body strings.Builder
	headerStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)

	for i, s := range sections {
		if i > 0 {
			body.WriteString("\n")
		}
		if s.title != "" {
			body.WriteString(headerStyle.Render(s.title) + "\n")
		}
		for _, task := range s.tasks {
			total++
			box := "[ ]"
			if task.completed {
				done++
				box = styles.StatusIndicators.Success
			}
			body.WriteString(box + " " + task.content + "\n")
		}
	}

	if total == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	return card{
		title:     title,
		summary:   util.IntToString(done) + "/" + util.IntToString(total) + " done",
		body:      strings.TrimRight(body.String(), "\n"),
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

type taskSection struct {
	title string
	tasks []taskItem
}

type taskItem struct {
	content   string
	completed bool
}

// taskSections decodes the section list from output or arguments. Shape:
// `{"sections":[{"title":...,"tasks":[{"content":...,"status":...}]}]}`.
func taskSections(p Props) []taskSection {
	var doc map[string]any
	if out, ok := outputMap(p); ok {
		doc = out
	} else {
		doc = p.ToolCall.Args()
	}

	raw, _ := doc["sections"].([]any)
	sections := make([]taskSection, 0, len(raw))
	for _, item := range raw {
		entry, _ := item.(map[string]any)
		if entry == nil {
			continue
		}
		s := taskSection{}
		s.title, _ = entry["title"].(string)
		tasks, _ := entry["tasks"].([]any)
		for _, t := range tasks {
			task, _ := t.(map[string]any)
			if task == nil {
				continue
			}
			content, _ := task["content"].(string)
			status, _ := task["status"].(string)
			if content == "" {
				continue
			}
			s.tasks = append(s.tasks, taskItem{
				content:   content,
				completed: status == "completed" || status == "done",
			})
		}
		if s.title != "" || len(s.tasks) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}
