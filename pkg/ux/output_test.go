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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output and sets the personality level for one test.
func capture(t *testing.T, level PersonalityLevel) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	restore := SetOutput(out, errOut)
	prev := GetPersonality()
	SetPersonalityLevel(level)
	t.Cleanup(func() {
		restore()
		SetPersonality(prev)
	})
	return out, errOut
}

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconArrow, IconBullet} {
		assert.Contains(t, icon.Render(), string(icon))
	}
}

func TestMachineOutput(t *testing.T) {
	out, errOut := capture(t, PersonalityMachine)

	Title("Create an ESLint config")
	Success("wrote eslint.config.mjs")
	Warning("peer lookup failed")
	Error("install failed")
	Info("npm install -D eslint")
	Muted("tip")
	Box("Config", "eslint.config.mjs")
	WarningBox("Lint", "2 problems")

	assert.Equal(t,
		"OK: wrote eslint.config.mjs\n"+
			"npm install -D eslint\n"+
			"Config: eslint.config.mjs\n",
		out.String())
	assert.Equal(t,
		"WARN: peer lookup failed\n"+
			"ERROR: install failed\n"+
			"WARN Lint: 2 problems\n",
		errOut.String())
}

func TestStandardOutput(t *testing.T) {
	out, errOut := capture(t, PersonalityStandard)

	Title("Create an ESLint config")
	Success("done")
	Warning("careful")
	Error("broken")

	assert.Contains(t, out.String(), "Create an ESLint config")
	assert.Contains(t, out.String(), string(IconSuccess))
	assert.Contains(t, out.String(), "careful")
	assert.Contains(t, errOut.String(), "broken")
	assert.NotContains(t, out.String(), "broken")
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		level PersonalityLevel
		want  []string
	}{
		{"machine", PersonalityMachine, []string{"Dependencies: eslint, @eslint/js, globals\n"}},
		{"standard", PersonalityStandard, []string{"Dependencies", "• eslint\n", "• @eslint/js\n", "• globals\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := capture(t, tt.level)
			List("Dependencies", []string{"eslint", "@eslint/js", "globals"})
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestFinding(t *testing.T) {
	t.Run("machine", func(t *testing.T) {
		out, _ := capture(t, PersonalityMachine)
		Finding("error", "eslint.config.mjs:3:1", "Unexpected var", "no-var")
		assert.Equal(t, "ERROR\teslint.config.mjs:3:1\tno-var\tUnexpected var\n", out.String())
	})

	t.Run("standard without rule", func(t *testing.T) {
		out, _ := capture(t, PersonalityStandard)
		Finding("warning", "eslint.config.mjs:1:1", "Parsing slow", "")
		assert.Contains(t, out.String(), string(IconWarning))
		assert.Contains(t, out.String(), "Parsing slow")
		assert.NotContains(t, out.String(), "(")
	})
}

func TestSetOutput_Restore(t *testing.T) {
	var first, second bytes.Buffer
	restoreFirst := SetOutput(&first, nil)
	defer restoreFirst()

	restoreSecond := SetOutput(&second, nil)
	assert.Same(t, &second, outWriter())
	restoreSecond()
	assert.Same(t, &first, outWriter())
}
