// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for agent threads: unified
// messages, tool calls, and tool results as delivered by the platform API.
//
// Message content and metadata arrive as JSON-encoded strings. Every
// accessor in this package parses with a structural fallback and never
// returns an error to the render path: malformed payloads degrade to a
// wrapper around the raw string instead of propagating a parse failure.
package model
