// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux renders the wizard's user-facing output.
//
// Everything here is for people; diagnostics go through pkg/logging. Each
// helper adapts to the current PersonalityLevel, and PersonalityMachine
// prints plain prefixed lines suitable for scripts.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: deep ocean teals and arctic waters.
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // borders, accents
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// =============================================================================
// Output destinations
// =============================================================================

var (
	outMu  sync.RWMutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects user-facing output. Nil restores the default stream.
// It returns a function that restores the previous writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	outMu.Lock()
	defer outMu.Unlock()

	prevOut, prevErr := stdout, stderr
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut

	return func() {
		outMu.Lock()
		defer outMu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

func outWriter() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	return stdout
}

func errWriter() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	return stderr
}

// =============================================================================
// Print helpers that respect personality level
// =============================================================================

// Title prints a styled title.
func Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(outWriter(), Styles.Title.Render(text))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(outWriter(), "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(outWriter(), "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(outWriter(), "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning. Machine mode writes it to stderr.
func Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(errWriter(), "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(outWriter(), "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(outWriter(), "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error to stderr.
func Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(errWriter(), "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(errWriter(), "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(errWriter(), "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message.
func Info(text string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintln(outWriter(), text)
		return
	}
	fmt.Fprintf(outWriter(), "%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Suppressed in machine mode.
func Muted(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(outWriter(), Styles.Muted.Render(text))
}

// Box prints text in a rounded box.
func Box(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(outWriter(), "%s: %s\n", title, content)
		return
	}
	fmt.Fprintln(outWriter(), Styles.Box.Width(60).Render(Styles.Title.Render(title)+"\n"+content))
}

// WarningBox prints text in a warning-styled box.
func WarningBox(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(errWriter(), "WARN %s: %s\n", title, content)
		return
	}
	fmt.Fprintln(outWriter(), Styles.WarningBox.Width(60).Render(Styles.Warning.Bold(true).Render(title)+"\n"+content))
}

// List prints a heading followed by one bulleted line per item.
//
// Machine mode prints "heading: a, b, c" on one line.
func List(heading string, items []string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(outWriter(), "%s: %s\n", heading, strings.Join(items, ", "))
		return
	}
	var b strings.Builder
	b.WriteString(Styles.Bold.Render(heading))
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "  %s %s\n", Styles.Muted.Render(string(IconBullet)), item)
	}
	fmt.Fprint(outWriter(), b.String())
}

// Finding prints one linter finding with its location.
func Finding(severity, location, message, rule string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(outWriter(), "%s\t%s\t%s\t%s\n", strings.ToUpper(severity), location, rule, message)
		return
	}
	icon := IconWarning
	if severity == "error" {
		icon = IconError
	}
	suffix := ""
	if rule != "" {
		suffix = " " + Styles.Muted.Render("("+rule+")")
	}
	fmt.Fprintf(outWriter(), "  %s %s %s%s\n", icon.Render(), Styles.Muted.Render(location), message, suffix)
}
