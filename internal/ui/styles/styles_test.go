// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR PALETTE TESTS
// =============================================================================

func TestAdaptiveColorsDefined(t *testing.T) {
	colors := map[string]lipgloss.AdaptiveColor{
		"Purple":              Purple,
		"Cyan":                Cyan,
		"Emerald":             Emerald,
		"Rose":                Rose,
		"Amber":               Amber,
		"Surface":             Surface,
		"SurfaceDim":          SurfaceDim,
		"Overlay":             Overlay,
		"TextPrimary":         TextPrimary,
		"TextSecondary":       TextSecondary,
		"TextMuted":           TextMuted,
		"SuccessHighContrast": SuccessHighContrast,
		"ErrorHighContrast":   ErrorHighContrast,
		"WarningHighContrast": WarningHighContrast,
		"InfoHighContrast":    InfoHighContrast,
	}

	for name, c := range colors {
		if c.Light == "" || c.Dark == "" {
			t.Errorf("%s missing light or dark variant: %+v", name, c)
		}
	}
}

func TestStatusIndicatorsUniqueness(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}

	seen := make(map[string]bool)
	for _, ind := range indicators {
		if ind == "" {
			t.Error("status indicator is empty")
		}
		if seen[ind] {
			t.Errorf("duplicate status indicator %q", ind)
		}
		seen[ind] = true
	}
}

// =============================================================================
// RENDER HELPER TESTS
// =============================================================================

func TestRenderStatusIncludesShapeIndicator(t *testing.T) {
	// The shape indicator must survive styling so colorblind users can
	// distinguish outcomes without color.
	success := RenderStatus(true, "saved")
	if !strings.Contains(success, StatusIndicators.Success) {
		t.Errorf("success render %q missing %q", success, StatusIndicators.Success)
	}
	if !strings.Contains(success, "saved") {
		t.Errorf("success render %q missing message", success)
	}

	failure := RenderStatus(false, "upload failed")
	if !strings.Contains(failure, StatusIndicators.Error) {
		t.Errorf("failure render %q missing %q", failure, StatusIndicators.Error)
	}
}

func TestRenderHelpersHandleEmptyMessage(t *testing.T) {
	for name, fn := range map[string]func(string) string{
		"success": RenderSuccess,
		"error":   RenderError,
		"warning": RenderWarning,
		"info":    RenderInfo,
		"link":    RenderLink,
	} {
		if out := fn(""); out == "" && name != "link" {
			t.Errorf("%s render of empty message dropped the indicator", name)
		}
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	// A handful of load-bearing styles must render without panicking.
	_ = theme.UserBubble.Render("hi")
	_ = theme.AssistantGroup.Render("hello")
	_ = theme.ToolSuccess.Render("ok")
	_ = theme.ToolError.Render("fail")
	_ = theme.StatusBar.Render("ready")
}

func TestThemeGetLayoutMode(t *testing.T) {
	theme := NewTheme()

	cases := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tc := range cases {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: layout = %v, want %v", tc.width, got, tc.want)
		}
	}
}
