// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PnpmWorkspaceFile marks the root of a pnpm workspace.
const PnpmWorkspaceFile = "pnpm-workspace.yaml"

// PnpmWorkspace is the parsed pnpm-workspace.yaml.
type PnpmWorkspace struct {
	// Packages are the workspace member globs.
	Packages []string `yaml:"packages"`
}

// FindPnpmWorkspace reports whether dir itself contains a
// pnpm-workspace.yaml and returns its path. Parent directories are not
// searched: only the workspace root needs the -w install flag.
func FindPnpmWorkspace(dir string) (string, bool) {
	path := filepath.Join(dir, PnpmWorkspaceFile)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// LoadPnpmWorkspace parses a pnpm-workspace.yaml file.
func LoadPnpmWorkspace(path string) (*PnpmWorkspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workspace file: %w", err)
	}

	var ws PnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &ws, nil
}
