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

// CheckDeps reports, for each package in pkgs, whether the nearest
// manifest above startDir lists it under "dependencies".
//
// Fails with ErrManifestNotFound when there is no manifest, or with a
// *ParseError when it is not valid JSON.
func CheckDeps(pkgs []string, startDir string) (map[string]bool, error) {
	return check(pkgs, startDir, func(m *Manifest) map[string]string {
		return m.Dependencies
	})
}

// CheckDevDeps is CheckDeps for "devDependencies".
func CheckDevDeps(pkgs []string, startDir string) (map[string]bool, error) {
	return check(pkgs, startDir, func(m *Manifest) map[string]string {
		return m.DevDependencies
	})
}

func check(pkgs []string, startDir string, section func(*Manifest) map[string]string) (map[string]bool, error) {
	path, err := Locate(startDir)
	if err != nil {
		return nil, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, err
	}

	declared := section(m)
	status := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		_, ok := declared[pkg]
		status[pkg] = ok
	}
	return status, nil
}
