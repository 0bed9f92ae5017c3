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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AnyRange is the range npm reads an empty peer range as.
const AnyRange = "*"

// Dependency is one declared peer dependency.
type Dependency struct {
	Name  string
	Range string
}

// decodeDependencies reads a JSON object of name → range pairs, keeping
// the key order of the source document. null and empty input decode to no
// dependencies. A blank range decodes as AnyRange.
func decodeDependencies(data []byte) ([]Dependency, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading peer dependencies: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("peer dependencies: expected object, got %v", tok)
	}

	var deps []Dependency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading peer dependency name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("peer dependencies: unexpected token %v", keyTok)
		}

		var rng string
		if err := dec.Decode(&rng); err != nil {
			return nil, fmt.Errorf("reading range for %s: %w", name, err)
		}
		if rng = strings.TrimSpace(rng); rng == "" {
			rng = AnyRange
		}
		deps = append(deps, Dependency{Name: name, Range: rng})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading peer dependencies: %w", err)
	}
	return deps, nil
}

// parseShowOutput decodes the stdout of "npm show --json <pkg>
// peerDependencies". When the specifier matched several versions npm prints
// an array ordered oldest first; the last entry wins.
func parseShowOutput(stdout []byte) ([]Dependency, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var many []json.RawMessage
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, fmt.Errorf("decoding npm output: %w", err)
		}
		if len(many) == 0 {
			return nil, nil
		}
		trimmed = many[len(many)-1]
	}
	return decodeDependencies(trimmed)
}

type npmErrorPayload struct {
	Error *struct {
		Code    string `json:"code"`
		Summary string `json:"summary"`
	} `json:"error"`
}

// npmErrorCode extracts the error code npm prints with --json on failure.
// It checks each stream in turn and returns "" when none carries one.
func npmErrorCode(streams ...[]byte) (code, summary string) {
	for _, s := range streams {
		var payload npmErrorPayload
		if err := json.Unmarshal(bytes.TrimSpace(s), &payload); err != nil || payload.Error == nil {
			continue
		}
		return payload.Error.Code, payload.Error.Summary
	}
	return "", ""
}
