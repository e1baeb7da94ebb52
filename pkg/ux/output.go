// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides styled terminal output for the sptm CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette - dusk violets with warm accents
var (
	ColorViolet     = lipgloss.Color("#8B7CF6") // primary brand color
	ColorVioletDeep = lipgloss.Color("#6D5BD0") // borders, accents
	ColorLavender   = lipgloss.Color("#B8AEF0") // secondary text
	ColorSlate      = lipgloss.Color("#5A5A72") // muted text
	ColorAmber      = lipgloss.Color("#F4B860") // warnings, urgency
	ColorRose       = lipgloss.Color("#E76E83") // errors
	ColorMint       = lipgloss.Color("#6FD9A6") // success, completion
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Done      lipgloss.Style

	Box      lipgloss.Style
	Quadrant lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorViolet),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorLavender),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorMint),
	Warning:   lipgloss.NewStyle().Foreground(ColorAmber),
	Error:     lipgloss.NewStyle().Foreground(ColorRose),
	Highlight: lipgloss.NewStyle().Foreground(ColorViolet).Bold(true),
	Done:      lipgloss.NewStyle().Foreground(ColorSlate).Strikethrough(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorVioletDeep).
		Padding(0, 1),
	Quadrant: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorSlate).
		Padding(0, 1).
		Width(38),
}

// Success prints a checkmarked line to stdout.
func Success(format string, args ...any) {
	fmt.Fprintln(os.Stdout, Styles.Success.Render("✓ ")+fmt.Sprintf(format, args...))
}

// Warn prints a warning line to stderr.
func Warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Styles.Warning.Render("⚠ ")+fmt.Sprintf(format, args...))
}

// Error prints an error line to stderr.
func Error(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Styles.Error.Render("✗ ")+fmt.Sprintf(format, args...))
}

// Info prints a plain informational line to stdout.
func Info(format string, args ...any) {
	fmt.Fprintln(os.Stdout, fmt.Sprintf(format, args...))
}
