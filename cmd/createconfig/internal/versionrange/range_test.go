// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package versionrange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// desugared renders the comparator sets of a range for assertions.
func desugared(r Range) string {
	sets := make([]string, 0, len(r.sets))
	for _, set := range r.sets {
		parts := make([]string, 0, len(set))
		for _, c := range set {
			parts = append(parts, c.String())
		}
		sets = append(sets, strings.Join(parts, " "))
	}
	return strings.Join(sets, " || ")
}

func TestParse_Desugaring(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"^8.0.0", ">=8.0.0 <9.0.0-0"},
		{"^0.2.3", ">=0.2.3 <0.3.0-0"},
		{"^0.0.3", ">=0.0.3 <0.0.4-0"},
		{"^1.2", ">=1.2.0 <2.0.0-0"},
		{"^0.0", ">=0.0.0 <0.1.0-0"},
		{"^1", ">=1.0.0 <2.0.0-0"},
		{"~1.2.3", ">=1.2.3 <1.3.0-0"},
		{"~>1.2", ">=1.2.0 <1.3.0-0"},
		{"~1", ">=1.0.0 <2.0.0-0"},
		{"1.x", ">=1.0.0 <2.0.0-0"},
		{"1.2.*", ">=1.2.0 <1.3.0-0"},
		{"*", ">=0.0.0"},
		{"", ">=0.0.0"},
		{">1.2", ">=1.3.0"},
		{"<1.2", "<1.2.0-0"},
		{"<=1.2", "<1.3.0-0"},
		{">= 8.0.0", ">=8.0.0"},
		{"v1.2.3", "=1.2.3"},
		{"1.2.3 - 2.3", ">=1.2.3 <2.4.0-0"},
		{"1.2 - 2.3.4", ">=1.2.0 <=2.3.4"},
		{"^8.57.0 || ^9.0.0", ">=8.57.0 <9.0.0-0 || >=9.0.0 <10.0.0-0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desugared(r))
			assert.Equal(t, tt.in, r.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"latest", "next", "^abc", "1.2.3.4", ">=", "1.2.3 || foo"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestRange_Contains(t *testing.T) {
	tests := []struct {
		rng     string
		version string
		want    bool
	}{
		{"^8.0.0", "8.0.0", true},
		{"^8.0.0", "8.57.1", true},
		{"^8.0.0", "9.0.0", false},
		{"^8.0.0", "9.0.0-beta.1", false},
		{"^8.0.0", "7.9.9", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"1.x", "1.5.0", true},
		{"*", "3.0.0", true},
		{"*", "3.0.0-rc.1", false},
		{">=8.0.0 <10", "9.22.0", true},
		{">=8.0.0 <10", "10.0.0", false},
		{"^8.57.0 || ^9.0.0", "9.22.0", true},
		{"^8.57.0 || ^9.0.0", "8.56.0", false},
		{"1.2.3 - 2.3", "2.3.9", true},
		{"1.2.3 - 2.3", "2.4.0", false},
		{"^9.0.0-rc.1", "9.0.0-rc.2", true},
		{"^9.0.0-rc.1", "9.1.0", true},
		{"^9.0.0-rc.1", "9.1.0-rc.1", false},
		{"=1.2.3", "v1.2.3", true},
		{"^1.2", "1.1.9", false},
		{"^1.2", "1.9.0", true},
		{"^8.0.0", "not-a-version", false},
		{"^8.0.0", "8.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.rng+"/"+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.rng).Contains(tt.version))
		})
	}
}

func TestRange_EntirelyBelow(t *testing.T) {
	tests := []struct {
		rng  string
		want bool
	}{
		{"^8.0.0", true},
		{"8.x", true},
		{"^7 || ^8", true},
		{"<9.22.0", true},
		{"9.21.0", true},
		{"~9.21.0", true},
		{"1.0.0 - 9.21", true},
		{"^9.0.0", false},
		{"^9.22.0", false},
		{">=8", false},
		{"^8.0.0 || ^9.0.0", false},
		{"<=9.22.0", false},
		{"^10.0.0", false},
		{"*", false},
	}

	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.rng).EntirelyBelow("9.22.0"))
		})
	}

	t.Run("invalid version", func(t *testing.T) {
		assert.False(t, MustParse("^8.0.0").EntirelyBelow("nine"))
	})

	t.Run("zero range", func(t *testing.T) {
		assert.False(t, Range{}.EntirelyBelow("9.22.0"))
	})
}

func TestRange_MaxSatisfying(t *testing.T) {
	versions := []string{"8.0.0", "8.57.1", "9.0.0", "8.58.0-beta.0", "garbage", "8.10.0"}

	got, ok := MustParse("^8").MaxSatisfying(versions)
	require.True(t, ok)
	assert.Equal(t, "8.57.1", got)

	_, ok = MustParse("^10").MaxSatisfying(versions)
	assert.False(t, ok)
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.2.3", "v1.2.3", true},
		{"=1.2.3", "v1.2.3", true},
		{"v1.2.3-beta.1+build.5", "v1.2.3-beta.1", true},
		{"1.2", "", false},
		{"latest", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := normalizeVersion(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
