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

// =============================================================================
// INTERMEDIATE REPRESENTATION
// =============================================================================

// Import is one ES import declaration.
type Import struct {
	// Default is the default binding ("js" in `import js from "@eslint/js"`).
	Default string

	// Named are the braced bindings (`import { defineConfig } from ...`).
	Named []string

	From string
}

func (i Import) equal(o Import) bool {
	return i.Default == o.Default && i.From == o.From && slices.Equal(i.Named, o.Named)
}

// Entry is one element of the exported config array.
type Entry interface {
	isEntry()
}

// Block is a literal config object.
type Block struct {
	Ignores         []string
	Files           []string
	Plugins         []string
	Language        string
	LanguageOptions *LanguageOptions
	Extends         []string
}

// LanguageOptions is the languageOptions member of a Block.
type LanguageOptions struct {
	// SourceType is "commonjs" or "script".
	SourceType string

	// Globals are the environments whose globals are injected, sorted.
	Globals []Environment

	// Parser is an expression naming the parser ("tseslint.parser").
	Parser string
}

// Reference is a bare expression evaluating to a config or config array,
// such as `tseslint.configs.recommended` or an imported shared config.
type Reference struct {
	Expr string
}

// CompatExtends loads a legacy shareable config through the compat shim.
type CompatExtends struct {
	// Name is the shorthand config name ("airbnb" for eslint-config-airbnb).
	Name string
}

func (Block) isEntry()         {}
func (Reference) isEntry()     {}
func (CompatExtends) isEntry() {}

// Config is the complete generated file before rendering.
type Config struct {
	// Imports are the import declarations in emission order, the
	// defineConfig import last.
	Imports []Import

	// Compat requests the FlatCompat prelude. It is rendered after the
	// imports and before the export so every compat.extends entry can use
	// it.
	Compat bool

	Entries []Entry
}

// compatImports are the declarations the compat prelude relies on.
var compatImports = []Import{
	{Default: "path", From: "node:path"},
	{Named: []string{"fileURLToPath"}, From: "node:url"},
	{Named: []string{"FlatCompat"}, From: "@eslint/eslintrc"},
	{Default: "js", From: "@eslint/js"},
}

// compatStatements set up the compat object relative to the config file.
var compatStatements = []string{
	"// mimic CommonJS variables -- not needed if using CommonJS",
	"const __filename = fileURLToPath(import.meta.url);",
	"const __dirname = path.dirname(__filename);",
	"const compat = new FlatCompat({baseDirectory: __dirname, recommendedConfig: js.configs.recommended});",
}
