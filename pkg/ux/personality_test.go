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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"FULL", PersonalityFull},
		{"f", PersonalityFull},
		{"standard", PersonalityStandard},
		{"std", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"min", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{" machine ", PersonalityMachine},
		{"", PersonalityStandard},
		{"invalid", PersonalityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePersonalityLevel(tt.input))
		})
	}
}

func TestSetPersonalityLevel_Tips(t *testing.T) {
	prev := GetPersonality()
	defer SetPersonality(prev)

	SetPersonalityLevel(PersonalityFull)
	assert.True(t, GetPersonality().ShowTips)
	assert.True(t, ShouldShowProgress())

	SetPersonalityLevel(PersonalityMachine)
	assert.False(t, GetPersonality().ShowTips)
	assert.False(t, ShouldShowProgress())
}

func TestDefaultPersonality(t *testing.T) {
	p := DefaultPersonality()
	assert.Equal(t, PersonalityStandard, p.Level)
	assert.False(t, p.ShowTips)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
