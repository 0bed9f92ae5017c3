// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package peers

import "strings"

// LatestTag is the dist-tag used when a specifier carries no version.
const LatestTag = "latest"

// Specifier is a package name with a version, tag or range.
type Specifier struct {
	Name    string
	Version string
}

// String renders the specifier as "name@version".
func (s Specifier) String() string {
	return s.Name + "@" + s.Version
}

// ParseSpecifier splits "name@version" at the last "@" that is not the
// leading scope marker. A missing or empty version becomes "latest".
//
//	ParseSpecifier("eslint-config-xo")         // {eslint-config-xo latest}
//	ParseSpecifier("@scope/config@^2.0.0")     // {@scope/config ^2.0.0}
//	ParseSpecifier("@scope/config")            // {@scope/config latest}
func ParseSpecifier(s string) Specifier {
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return Specifier{Name: s, Version: LatestTag}
	}

	version := s[at+1:]
	if version == "" {
		version = LatestTag
	}
	return Specifier{Name: s[:at], Version: version}
}

// Join renders peer dependencies as "name@range" strings.
func Join(deps []Dependency) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Name+"@"+d.Range)
	}
	return out
}
