// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package versionrange evaluates npm-style version ranges.
//
// Ranges are parsed into a union of comparator sets, each comparator being a
// primitive operator applied to a full semantic version. Caret, tilde,
// x-range, partial and hyphen forms are desugared at parse time. Version
// comparison is delegated to golang.org/x/mod/semver.
package versionrange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidRange is returned by Parse for input that is not a range.
var ErrInvalidRange = errors.New("invalid version range")

// =============================================================================
// COMPARATORS
// =============================================================================

type operator int

const (
	opEQ operator = iota
	opLT
	opLTE
	opGT
	opGTE
)

func (o operator) String() string {
	switch o {
	case opLT:
		return "<"
	case opLTE:
		return "<="
	case opGT:
		return ">"
	case opGTE:
		return ">="
	default:
		return "="
	}
}

// comparator is a primitive constraint. version is always canonical
// ("vMAJOR.MINOR.PATCH[-PRERELEASE]").
type comparator struct {
	op      operator
	version string
}

var anyVersion = comparator{op: opGTE, version: "v0.0.0"}

// noVersion matches nothing that is not itself a prerelease of 0.0.0.
var noVersion = comparator{op: opLT, version: "v0.0.0-0"}

func (c comparator) test(v string) bool {
	cmp := semver.Compare(v, c.version)
	switch c.op {
	case opLT:
		return cmp < 0
	case opLTE:
		return cmp <= 0
	case opGT:
		return cmp > 0
	case opGTE:
		return cmp >= 0
	default:
		return cmp == 0
	}
}

func (c comparator) String() string {
	return c.op.String() + strings.TrimPrefix(c.version, "v")
}

// =============================================================================
// RANGE
// =============================================================================

// Range is a parsed npm version range.
//
// The zero value matches nothing; use Parse.
type Range struct {
	raw  string
	sets [][]comparator
}

// String returns the range as it was given to Parse.
func (r Range) String() string {
	return r.raw
}

// Parse parses an npm version range.
//
// # Description
//
// Supports "||" unions, space separated comparator sets, the operators
// <, <=, >, >=, =, caret (^), tilde (~, ~>), x-ranges (1.x, 1.2.*, *, ""),
// partial versions (1, 1.2), hyphen ranges (1.2.3 - 2.3.4) and an optional
// "v" prefix on versions. Dist-tags such as "latest" are not ranges.
//
// # Errors
//
// Returns an error wrapping ErrInvalidRange when any comparator cannot be
// parsed.
func Parse(s string) (Range, error) {
	r := Range{raw: s}
	for _, part := range strings.Split(s, "||") {
		set, err := parseSet(strings.TrimSpace(part))
		if err != nil {
			return Range{}, fmt.Errorf("%w %q: %v", ErrInvalidRange, s, err)
		}
		r.sets = append(r.sets, set)
	}
	return r, nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(s string) Range {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Contains reports whether version satisfies the range.
//
// Prerelease versions only match a comparator set that names a prerelease
// of the same major.minor.patch, as npm does. An unparsable version is
// never contained.
func (r Range) Contains(version string) bool {
	v, ok := normalizeVersion(version)
	if !ok {
		return false
	}
	for _, set := range r.sets {
		if setContains(set, v) {
			return true
		}
	}
	return false
}

// EntirelyBelow reports whether every version the range admits is lower
// than version.
//
// # Description
//
// This is npm's gtr(version, range): false when the range contains
// version, false when any comparator set is unbounded above or reaches up
// to version, true otherwise.
//
//	MustParse("^8.0.0").EntirelyBelow("9.22.0")  // true
//	MustParse("^9.0.0").EntirelyBelow("9.22.0")  // false
//	MustParse(">=8").EntirelyBelow("9.22.0")     // false
func (r Range) EntirelyBelow(version string) bool {
	v, ok := normalizeVersion(version)
	if !ok || len(r.sets) == 0 || r.Contains(v) {
		return false
	}

	for _, set := range r.sets {
		high, low := set[0], set[0]
		for _, c := range set[1:] {
			if semver.Compare(c.version, high.version) > 0 {
				high = c
			} else if semver.Compare(c.version, low.version) < 0 {
				low = c
			}
		}

		// The highest comparator is a lower bound, so the set is open above.
		if high.op == opGT || high.op == opGTE {
			return false
		}
		if (low.op == opEQ || low.op == opGT) && semver.Compare(v, low.version) <= 0 {
			return false
		}
		if low.op == opGTE && semver.Compare(v, low.version) < 0 {
			return false
		}
	}
	return true
}

// MaxSatisfying returns the highest version in versions that the range
// contains. Unparsable entries are skipped.
func (r Range) MaxSatisfying(versions []string) (string, bool) {
	best, bestNorm := "", ""
	for _, candidate := range versions {
		v, ok := normalizeVersion(candidate)
		if !ok || !r.Contains(v) {
			continue
		}
		if bestNorm == "" || semver.Compare(v, bestNorm) > 0 {
			best, bestNorm = candidate, v
		}
	}
	return best, bestNorm != ""
}

func setContains(set []comparator, v string) bool {
	for _, c := range set {
		if !c.test(v) {
			return false
		}
	}
	if semver.Prerelease(v) == "" {
		return true
	}

	base := stripPrerelease(v)
	for _, c := range set {
		if c == anyVersion {
			continue
		}
		if semver.Prerelease(c.version) != "" && stripPrerelease(c.version) == base {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSING
// =============================================================================

var (
	hyphenRe   = regexp.MustCompile(`^(\S+)\s+-\s+(\S+)$`)
	opSpaceRe  = regexp.MustCompile(`(<=|>=|~>|<|>|=|~|\^)\s+`)
	comparerRe = regexp.MustCompile(
		`^(<=|>=|~>|<|>|=|~|\^)?[v=]*` +
			`([0-9]+|[xX*])` +
			`(?:\.([0-9]+|[xX*])` +
			`(?:\.([0-9]+|[xX*])` +
			`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
			`(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?` +
			`)?)?$`)
)

// partial is a version with possibly missing trailing components.
type partial struct {
	major, minor, patch int

	// parts counts the leading numeric components present (0 to 3).
	parts int
	pre   string
}

func (p partial) floor() string {
	s := fmt.Sprintf("v%d.%d.%d", p.major, p.minor, p.patch)
	if p.parts == 3 && p.pre != "" {
		s += "-" + p.pre
	}
	return s
}

// ceiling is the exclusive upper bound of a partial version ("1.2" → <1.3.0-0).
func (p partial) ceiling() string {
	switch p.parts {
	case 1:
		return fmt.Sprintf("v%d.0.0-0", p.major+1)
	case 2:
		return fmt.Sprintf("v%d.%d.0-0", p.major, p.minor+1)
	default:
		return "v0.0.0-0"
	}
}

func parseSet(s string) ([]comparator, error) {
	if s == "" {
		return []comparator{anyVersion}, nil
	}

	if m := hyphenRe.FindStringSubmatch(s); m != nil {
		from, err := parsePartial(m[1])
		if err != nil {
			return nil, err
		}
		to, err := parsePartial(m[2])
		if err != nil {
			return nil, err
		}
		return hyphen(from, to), nil
	}

	var set []comparator
	for _, tok := range strings.Fields(opSpaceRe.ReplaceAllString(s, "$1")) {
		m := comparerRe.FindStringSubmatch(tok)
		if m == nil {
			return nil, fmt.Errorf("bad comparator %q", tok)
		}
		p, err := partialFromMatch(m[2:])
		if err != nil {
			return nil, err
		}
		set = append(set, desugar(m[1], p)...)
	}
	if len(set) == 0 {
		return []comparator{anyVersion}, nil
	}
	return set, nil
}

func parsePartial(s string) (partial, error) {
	m := comparerRe.FindStringSubmatch(s)
	if m == nil || m[1] != "" {
		return partial{}, fmt.Errorf("bad version %q", s)
	}
	return partialFromMatch(m[2:])
}

// partialFromMatch builds a partial from the major, minor, patch and
// prerelease submatches.
func partialFromMatch(m []string) (partial, error) {
	var p partial
	fields := []*int{&p.major, &p.minor, &p.patch}
	for i, raw := range m[:3] {
		if raw == "" || raw == "x" || raw == "X" || raw == "*" {
			break
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return partial{}, fmt.Errorf("bad version component %q: %w", raw, err)
		}
		*fields[i] = n
		p.parts = i + 1
	}
	if p.parts == 3 {
		p.pre = m[3]
	}
	return p, nil
}

func desugar(op string, p partial) []comparator {
	if p.parts == 0 {
		switch op {
		case ">", "<":
			return []comparator{noVersion}
		default:
			return []comparator{anyVersion}
		}
	}

	switch op {
	case "^":
		return caret(p)
	case "~", "~>":
		if p.parts == 1 {
			return xRange(p)
		}
		return []comparator{
			{opGTE, p.floor()},
			{opLT, fmt.Sprintf("v%d.%d.0-0", p.major, p.minor+1)},
		}
	case ">":
		if p.parts < 3 {
			// ">1.2" excludes all of 1.2.x.
			return []comparator{{opGTE, strings.TrimSuffix(p.ceiling(), "-0")}}
		}
		return []comparator{{opGT, p.floor()}}
	case ">=":
		return []comparator{{opGTE, p.floor()}}
	case "<":
		if p.parts < 3 {
			return []comparator{{opLT, p.floor() + "-0"}}
		}
		return []comparator{{opLT, p.floor()}}
	case "<=":
		if p.parts < 3 {
			return []comparator{{opLT, p.ceiling()}}
		}
		return []comparator{{opLTE, p.floor()}}
	default:
		if p.parts < 3 {
			return xRange(p)
		}
		return []comparator{{opEQ, p.floor()}}
	}
}

func xRange(p partial) []comparator {
	return []comparator{{opGTE, p.floor()}, {opLT, p.ceiling()}}
}

func caret(p partial) []comparator {
	switch {
	case p.parts == 1:
		return xRange(p)
	case p.parts == 2 && p.major == 0:
		return xRange(p)
	case p.parts == 2:
		return []comparator{{opGTE, p.floor()}, {opLT, fmt.Sprintf("v%d.0.0-0", p.major+1)}}
	}

	var upper string
	switch {
	case p.major != 0:
		upper = fmt.Sprintf("v%d.0.0-0", p.major+1)
	case p.minor != 0:
		upper = fmt.Sprintf("v0.%d.0-0", p.minor+1)
	default:
		upper = fmt.Sprintf("v0.0.%d-0", p.patch+1)
	}
	return []comparator{{opGTE, p.floor()}, {opLT, upper}}
}

func hyphen(from, to partial) []comparator {
	set := []comparator{anyVersion}
	if from.parts > 0 {
		set[0] = comparator{opGTE, from.floor()}
	}
	switch {
	case to.parts == 0:
	case to.parts < 3:
		set = append(set, comparator{opLT, to.ceiling()})
	default:
		set = append(set, comparator{opLTE, to.floor()})
	}
	return set
}

// =============================================================================
// VERSIONS
// =============================================================================

// normalizeVersion turns "1.2.3", "v1.2.3" or "=1.2.3" into the canonical
// "v1.2.3" form x/mod/semver expects. Partial versions are rejected.
func normalizeVersion(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "=v")
	if strings.Count(strings.SplitN(strings.SplitN(s, "+", 2)[0], "-", 2)[0], ".") != 2 {
		return "", false
	}
	v := "v" + s
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}

func stripPrerelease(v string) string {
	return strings.TrimSuffix(v, semver.Prerelease(v))
}
