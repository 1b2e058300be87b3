// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marker views let tests tell registry entries apart: View is a func type,
// so identity is checked through rendered output.
func markerView(out string) View {
	return func(Props) string { return out }
}

func TestRegistryGetFallsBackToDefault(t *testing.T) {
	r := NewRegistry(markerView("default"))

	v := r.Get("never-registered")
	require.NotNil(t, v)
	assert.Equal(t, "default", v(Props{}))

	assert.Equal(t, "default", r.Get("")(Props{}))
	assert.Equal(t, "default", r.Get(DefaultKey)(Props{}))
}

func TestRegistryHyphenUnderscoreEquivalence(t *testing.T) {
	r := NewRegistry(markerView("default"))
	r.Register("read_file", markerView("file"))

	assert.Equal(t, "file", r.Get("read_file")(Props{}))
	assert.Equal(t, "file", r.Get("read-file")(Props{}))
	assert.Equal(t, "file", r.Get("Read_File")(Props{}))
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry(markerView("default"))
	r.Register("web-search", markerView("first"))
	r.Register("web-search", markerView("second"))

	assert.Equal(t, "second", r.Get("web-search")(Props{}))
}

func TestRegisterManyIgnoresNil(t *testing.T) {
	r := NewRegistry(markerView("default"))
	r.Register("ask", markerView("kept"))

	r.RegisterMany(map[string]View{
		"ask":      nil, // must not clobber the existing entry
		"complete": markerView("complete"),
	})

	assert.Equal(t, "kept", r.Get("ask")(Props{}))
	assert.Equal(t, "complete", r.Get("complete")(Props{}))
}

func TestRegistryClearRestoresOriginalDefault(t *testing.T) {
	r := NewRegistry(markerView("original"))
	r.Register("ask", markerView("ask"))
	r.Register(DefaultKey, markerView("overridden"))
	assert.Equal(t, "overridden", r.Get("missing")(Props{}))

	r.Clear()

	assert.Equal(t, "original", r.Get(DefaultKey)(Props{}))
	assert.Equal(t, "original", r.Get("anythingElse")(Props{}))
	assert.Empty(t, r.ToolNames())
}

func TestRegistryIntrospection(t *testing.T) {
	r := NewRegistry(markerView("default"))
	r.Register("web_search", markerView("a"))
	r.Register("ask", markerView("b"))

	assert.True(t, r.Has("web-search"))
	assert.True(t, r.Has("web_search"))
	assert.False(t, r.Has("nope"))
	assert.Equal(t, []string{"ask", "web-search"}, r.ToolNames())
}

func TestNewRegistryNilDefault(t *testing.T) {
	r := NewRegistry(nil)
	v := r.Get("anything")
	require.NotNil(t, v)
	assert.Equal(t, "", v(Props{}))
}

func TestBuiltinRegistryAliases(t *testing.T) {
	r := NewBuiltinRegistry()

	// Both separator spellings of a registered tool hit the same entry.
	assert.True(t, r.Has("read_file"))
	assert.True(t, r.Has("read-file"))
	assert.True(t, r.Has("make_phone_call"))
	assert.NotEmpty(t, r.ToolNames())
}
