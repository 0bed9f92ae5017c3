// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package generator

import "slices"

// Accumulator is the state threaded through the derivation steps.
//
// Accumulator is a value: the with* methods return an updated copy and
// never write to the receiver's slices, so a step cannot affect the input
// it was given.
type Accumulator struct {
	FileName     string
	Imports      []Import
	Dependencies []string
	Entries      []Entry

	// NeedCompat is set by any step that emits a CompatExtends entry.
	NeedCompat bool

	// HasEngine is set when a shared config declares eslint as a peer.
	HasEngine bool

	// EngineRange is that peer's range. Only meaningful with HasEngine.
	EngineRange string
}

// newAccumulator returns the initial state: eslint as the first
// dependency and the ES module file name.
func newAccumulator() Accumulator {
	return Accumulator{
		FileName:     "eslint.config.js",
		Dependencies: []string{"eslint"},
	}
}

// withImport appends imp unless an identical declaration exists.
func (a Accumulator) withImport(imp Import) Accumulator {
	if slices.ContainsFunc(a.Imports, imp.equal) {
		return a
	}
	a.Imports = append(slices.Clip(a.Imports), imp)
	return a
}

func (a Accumulator) withDependencies(deps ...string) Accumulator {
	a.Dependencies = append(slices.Clip(a.Dependencies), deps...)
	return a
}

// withEngine replaces the first dependency, which is always the engine.
func (a Accumulator) withEngine(spec string) Accumulator {
	a.Dependencies = slices.Clone(a.Dependencies)
	a.Dependencies[0] = spec
	return a
}

func (a Accumulator) withEntries(entries ...Entry) Accumulator {
	a.Entries = append(slices.Clip(a.Entries), entries...)
	return a
}

// Config returns the intermediate representation built so far.
func (a Accumulator) Config() Config {
	return Config{
		Imports: slices.Clone(a.Imports),
		Compat:  a.NeedCompat,
		Entries: slices.Clone(a.Entries),
	}
}
