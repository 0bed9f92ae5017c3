// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package generator derives an eslint flat config from wizard answers.
//
// # Architecture
//
// Derivation is a fold over an ordered list of Steps. Each step reads the
// normalized Answers and returns an updated Accumulator holding the file
// name, imports, dependencies and config entries chosen so far:
//
//	Answers → Normalize → [peers] → fileName → baseRules → ... → dedupe → Render
//
// The only I/O is the peer-dependency lookup for a shared config, done once
// in Derive before the fold. Everything after it is pure, so Build can be
// called directly in tests.
//
// Entries are typed (Block, Reference, CompatExtends) and turned into
// source text by Render in one pass. The compat prelude is a flag on
// Config rather than an entry; Render always places it before the export.
//
// # Usage
//
//	g := generator.New(resolver)
//	res, err := g.Derive(ctx, generator.Answers{
//	    Languages:    []generator.Language{generator.LangJavaScript},
//	    Purpose:      generator.PurposeProblems,
//	    ModuleType:   generator.ModuleESM,
//	    Environments: []generator.Environment{generator.EnvNode},
//	}, manifest.IsModuleType(pkgPath))
//
// # Thread Safety
//
// Generator holds no mutable state.
package generator
