// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines the verbosity and richness of CLI output.
type PersonalityLevel string

const (
	// PersonalityFull enables tips and every visual flourish.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityStandard enables colors, icons, and boxes.
	PersonalityStandard PersonalityLevel = "standard"

	// PersonalityMinimal uses icons and basic formatting only.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine outputs plain text suitable for scripting and parsing.
	PersonalityMachine PersonalityLevel = "machine"
)

// Personality holds the current UX personality configuration.
type Personality struct {
	Level PersonalityLevel

	// ShowTips prints hints such as how to run eslint after setup.
	ShowTips bool
}

var (
	currentPersonality = DefaultPersonality()
	personalityMu      sync.RWMutex
)

// GetPersonality returns the current personality settings.
func GetPersonality() Personality {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return currentPersonality
}

// SetPersonality updates the current personality settings.
func SetPersonality(p Personality) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality = p
}

// SetPersonalityLevel updates the level. Tips follow the level: only
// PersonalityFull shows them.
func SetPersonalityLevel(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality.Level = level
	currentPersonality.ShowTips = level == PersonalityFull
}

// ParsePersonalityLevel converts a string to PersonalityLevel, falling
// back to PersonalityStandard.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "f":
		return PersonalityFull
	case "standard", "std", "s":
		return PersonalityStandard
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "quiet", "q":
		return PersonalityMachine
	default:
		return PersonalityStandard
	}
}

// InitPersonality sets the level from the configured value. When stdout
// is not a terminal the machine level is used regardless, so piped output
// never carries escape codes.
func InitPersonality(configured string) {
	if !IsTerminal(os.Stdout) {
		SetPersonalityLevel(PersonalityMachine)
		return
	}
	SetPersonalityLevel(ParsePersonalityLevel(configured))
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldShowProgress returns true if spinners should animate.
func ShouldShowProgress() bool {
	return GetPersonality().Level != PersonalityMachine
}

// DefaultPersonality returns the default personality settings.
func DefaultPersonality() Personality {
	return Personality{
		Level:    PersonalityStandard,
		ShowTips: false,
	}
}
