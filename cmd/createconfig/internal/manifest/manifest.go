// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manifest locates and reads a project's package.json.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file name.
const FileName = "package.json"

// ErrManifestNotFound is returned when no package.json exists between the
// start directory and the filesystem root.
var ErrManifestNotFound = errors.New("could not find a package.json file, run 'npm init' to create one")

// ParseError reports a manifest that exists but is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Manifest is the subset of package.json the wizard reads.
type Manifest struct {
	Name            string            `json:"name,omitempty"`
	Type            string            `json:"type,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// IsModule reports whether the manifest declares "type": "module".
func (m *Manifest) IsModule() bool {
	return m != nil && m.Type == "module"
}

// Locate walks up from startDir until it finds a package.json regular file.
//
// # Description
//
// startDir is made absolute first; an empty startDir means the current
// working directory. Directories named package.json are skipped.
//
// # Outputs
//
//   - string: Absolute path of the manifest.
//   - error: ErrManifestNotFound once the filesystem root has been checked.
func Locate(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &m, nil
}

// IsModuleType reports whether the manifest at path declares the ES module
// type. It returns false for an empty path and for a missing or unparsable
// file; it never fails.
func IsModuleType(path string) bool {
	if path == "" {
		return false
	}
	m, err := Load(path)
	if err != nil {
		return false
	}
	return m.IsModule()
}
