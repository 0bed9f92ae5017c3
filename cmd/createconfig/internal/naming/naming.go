// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package naming implements the shareable-config package naming convention.
//
// A shareable config published as "eslint-config-foo" can be referred to as
// "foo", and a scoped "@scope/eslint-config" as "@scope". The two functions
// here convert between the full package name and that shorthand.
package naming

import "strings"

// ConfigPrefix is the prefix for shareable lint configs.
const ConfigPrefix = "eslint-config"

// ShorthandName removes the prefix from a full package name.
//
//	ShorthandName("eslint-config-airbnb", ConfigPrefix)   // "airbnb"
//	ShorthandName("@scope/eslint-config", ConfigPrefix)   // "@scope"
//	ShorthandName("@scope/eslint-config-x", ConfigPrefix) // "@scope/x"
//
// Names that do not follow the convention are returned unchanged.
func ShorthandName(fullname, prefix string) string {
	if strings.HasPrefix(fullname, "@") {
		scope, rest, ok := strings.Cut(fullname, "/")
		switch {
		case !ok || scope == "@":
			return fullname
		case rest == prefix:
			return scope
		case strings.HasPrefix(rest, prefix+"-") && len(rest) > len(prefix)+1:
			return scope + "/" + rest[len(prefix)+1:]
		}
		return fullname
	}

	if strings.HasPrefix(fullname, prefix+"-") {
		return fullname[len(prefix)+1:]
	}
	return fullname
}

// NormalizePackageName expands a shorthand name to the full package name.
//
//	NormalizePackageName("airbnb", ConfigPrefix)   // "eslint-config-airbnb"
//	NormalizePackageName("@scope", ConfigPrefix)   // "@scope/eslint-config"
//	NormalizePackageName("@scope/x", ConfigPrefix) // "@scope/eslint-config-x"
//
// Backslashes are treated as path separators and converted to "/". Names
// that already carry the prefix are returned unchanged.
func NormalizePackageName(name, prefix string) string {
	normalized := name

	if strings.Contains(normalized, "\\") {
		normalized = strings.ReplaceAll(normalized, "\\", "/")
	}

	if strings.HasPrefix(normalized, "@") {
		scope, rest, hasRest := strings.Cut(normalized, "/")
		switch {
		case !hasRest || rest == "":
			// "@scope" → "@scope/eslint-config"
			return scope + "/" + prefix
		case rest == prefix || strings.HasPrefix(rest, prefix+"-"):
			return normalized
		default:
			// "@scope/x" → "@scope/eslint-config-x"
			return scope + "/" + prefix + "-" + rest
		}
	}

	if !strings.HasPrefix(normalized, prefix+"-") {
		return prefix + "-" + normalized
	}
	return normalized
}
