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

import (
	"slices"
	"strings"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/naming"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/peers"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/versionrange"
)

// DefineConfigMinVersion is the first eslint release that exports
// defineConfig from "eslint/config".
const DefineConfigMinVersion = "9.22.0"

// Input is everything a step may consult.
type Input struct {
	// Answers must already be normalized.
	Answers Answers

	// ModuleIsESM is true when the project manifest declares "type": "module".
	ModuleIsESM bool

	// Peers are the shared config's peer dependencies as "name@range".
	// Only consulted when PeersKnown is set.
	Peers      []string
	PeersKnown bool
}

// Step is one rule of the derivation. Steps are pure.
type Step func(Accumulator, Input) Accumulator

// Steps returns the derivation rules in application order.
func Steps() []Step {
	return []Step{
		fileNameStep,
		baseRulesStep,
		moduleTypeStep,
		globalsStep,
		typeScriptStep,
		vueStep,
		reactStep,
		ignoreJavaScriptStep,
		jsonStep,
		markdownStep,
		cssStep,
		sharedConfigStep,
		defineConfigStep,
		compatStep,
		jitiStep,
		dedupeStep,
	}
}

// Fold applies steps in order, starting from the initial accumulator.
func Fold(steps []Step, in Input) Accumulator {
	acc := newAccumulator()
	for _, step := range steps {
		acc = step(acc, in)
	}
	return acc
}

// =============================================================================
// JAVASCRIPT
// =============================================================================

// extensionsGlob matches every source file the JavaScript blocks apply to.
func extensionsGlob(a Answers) string {
	exts := []string{"js", "mjs", "cjs"}
	if a.UseTypeScript {
		exts = append(exts, "ts")
	}
	switch a.Framework {
	case FrameworkVue:
		exts = append(exts, "vue")
	case FrameworkReact:
		exts = append(exts, "jsx")
		if a.UseTypeScript {
			exts = append(exts, "tsx")
		}
	}
	return "**/*.{" + strings.Join(exts, ",") + "}"
}

func fileNameStep(acc Accumulator, in Input) Accumulator {
	ext := "js"
	if in.Answers.ConfigFileLanguage == FileTypeScript {
		ext = "ts"
	}
	if !in.ModuleIsESM {
		ext = "m" + ext
	}
	acc.FileName = "eslint.config." + ext
	return acc
}

func baseRulesStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangJavaScript) || a.Purpose != PurposeProblems {
		return acc
	}
	return acc.
		withDependencies("@eslint/js").
		withImport(Import{Default: "js", From: "@eslint/js"}).
		withEntries(Block{
			Files:   []string{extensionsGlob(a)},
			Plugins: []string{"js"},
			Extends: []string{"js/recommended"},
		})
}

func moduleTypeStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangJavaScript) || (a.ModuleType != ModuleCommonJS && a.ModuleType != ModuleScript) {
		return acc
	}
	return acc.withEntries(Block{
		Files:           []string{"**/*.js"},
		LanguageOptions: &LanguageOptions{SourceType: string(a.ModuleType)},
	})
}

func globalsStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangJavaScript) || len(a.Environments) == 0 {
		return acc
	}
	return acc.
		withDependencies("globals").
		withImport(Import{Default: "globals", From: "globals"}).
		withEntries(Block{
			Files:           []string{extensionsGlob(a)},
			LanguageOptions: &LanguageOptions{Globals: slices.Clone(a.Environments)},
		})
}

func typeScriptStep(acc Accumulator, in Input) Accumulator {
	if !in.Answers.Has(LangJavaScript) || !in.Answers.UseTypeScript {
		return acc
	}
	return acc.
		withDependencies("typescript-eslint").
		withImport(Import{Default: "tseslint", From: "typescript-eslint"}).
		withEntries(Reference{Expr: "tseslint.configs.recommended"})
}

func vueStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangJavaScript) || a.Framework != FrameworkVue {
		return acc
	}
	acc = acc.
		withDependencies("eslint-plugin-vue").
		withImport(Import{Default: "pluginVue", From: "eslint-plugin-vue"}).
		withEntries(Reference{Expr: `pluginVue.configs["flat/essential"]`})

	// The TypeScript configs do not set the parser for .vue files.
	if a.UseTypeScript {
		acc = acc.withEntries(Block{
			Files:           []string{"**/*.vue"},
			LanguageOptions: &LanguageOptions{Parser: "tseslint.parser"},
		})
	}
	return acc
}

func reactStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangJavaScript) || a.Framework != FrameworkReact {
		return acc
	}
	return acc.
		withDependencies("eslint-plugin-react").
		withImport(Import{Default: "pluginReact", From: "eslint-plugin-react"}).
		withEntries(Reference{Expr: "pluginReact.configs.flat.recommended"})
}

// ignoreJavaScriptStep keeps eslint off JavaScript files when other
// languages were chosen instead. No languages at all adds nothing.
func ignoreJavaScriptStep(acc Accumulator, in Input) Accumulator {
	if len(in.Answers.Languages) == 0 || in.Answers.Has(LangJavaScript) {
		return acc
	}
	return acc.withEntries(Block{Ignores: []string{"**/*.js", "**/*.cjs", "**/*.mjs"}})
}

// =============================================================================
// OTHER LANGUAGES
// =============================================================================

// languageBlock is a block for one non-JavaScript language variant.
func languageBlock(glob, plugin, language string, purpose Purpose) Block {
	b := Block{
		Files:    []string{glob},
		Plugins:  []string{plugin},
		Language: language,
	}
	if purpose == PurposeProblems {
		b.Extends = []string{plugin + "/recommended"}
	}
	return b
}

func jsonStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	variants := []Language{LangJSON, LangJSONC, LangJSON5}
	if !slices.ContainsFunc(variants, a.Has) {
		return acc
	}

	acc = acc.
		withDependencies("@eslint/json").
		withImport(Import{Default: "json", From: "@eslint/json"})
	for _, v := range variants {
		if a.Has(v) {
			acc = acc.withEntries(languageBlock("**/*."+string(v), "json", "json/"+string(v), a.Purpose))
		}
	}
	return acc
}

func markdownStep(acc Accumulator, in Input) Accumulator {
	a := in.Answers
	if !a.Has(LangMarkdown) {
		return acc
	}
	return acc.
		withDependencies("@eslint/markdown").
		withImport(Import{Default: "markdown", From: "@eslint/markdown"}).
		withEntries(languageBlock("**/*.md", "markdown", "markdown/"+string(a.MarkdownFlavor), a.Purpose))
}

func cssStep(acc Accumulator, in Input) Accumulator {
	if !in.Answers.Has(LangCSS) {
		return acc
	}
	return acc.
		withDependencies("@eslint/css").
		withImport(Import{Default: "css", From: "@eslint/css"}).
		withEntries(languageBlock("**/*.css", "css", "css/css", in.Answers.Purpose))
}

// =============================================================================
// SHARED CONFIG AND EXPORT
// =============================================================================

// sharedConfigStep registers the shared config, merges its peers and adds
// the entry that loads it.
func sharedConfigStep(acc Accumulator, in Input) Accumulator {
	shared := in.Answers.SharedConfig
	if shared == nil {
		return acc
	}

	acc = acc.withDependencies(shared.PackageName)

	if in.PeersKnown {
		rest := in.Peers
		if i := slices.IndexFunc(in.Peers, isEngineSpec); i >= 0 {
			rng := engineRange(in.Peers[i])
			acc = acc.withEngine("eslint@" + rng)
			acc.HasEngine = true
			acc.EngineRange = rng
			rest = slices.Delete(slices.Clone(in.Peers), i, i+1)
		}
		acc = acc.withDependencies(rest...)
	}

	name := peers.ParseSpecifier(shared.PackageName).Name
	if shared.Style == StyleESLintrc {
		acc.NeedCompat = true
		return acc.withEntries(CompatExtends{Name: naming.ShorthandName(name, naming.ConfigPrefix)})
	}
	return acc.
		withImport(Import{Default: "config", From: name}).
		withEntries(Reference{Expr: "config"})
}

func isEngineSpec(spec string) bool {
	return spec == "eslint" || strings.HasPrefix(spec, "eslint@")
}

// engineRange is the range of an eslint specifier. No range means any
// version, as npm reads it.
func engineRange(spec string) string {
	rng := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(spec, "eslint"), "@"))
	if rng == "" {
		return peers.AnyRange
	}
	return rng
}

// defineConfigStep imports defineConfig from eslint itself when the engine
// version allows it, or from @eslint/config-helpers otherwise.
func defineConfigStep(acc Accumulator, in Input) Accumulator {
	if usesBuiltinDefineConfig(acc, in) {
		return acc.withImport(Import{Named: []string{"defineConfig"}, From: "eslint/config"})
	}
	return acc.
		withDependencies("@eslint/config-helpers").
		withImport(Import{Named: []string{"defineConfig"}, From: "@eslint/config-helpers"})
}

// usesBuiltinDefineConfig is true without a shared config, and with one
// only when its eslint peer range admits DefineConfigMinVersion or later.
// An unparsable range is given the benefit of the doubt.
func usesBuiltinDefineConfig(acc Accumulator, in Input) bool {
	if in.Answers.SharedConfig == nil {
		return true
	}
	if !acc.HasEngine {
		return false
	}
	rng, err := versionrange.Parse(acc.EngineRange)
	if err != nil {
		return true
	}
	return !rng.EntirelyBelow(DefineConfigMinVersion)
}

func compatStep(acc Accumulator, _ Input) Accumulator {
	if !acc.NeedCompat {
		return acc
	}
	return acc.withDependencies("@eslint/eslintrc", "@eslint/js")
}

func jitiStep(acc Accumulator, in Input) Accumulator {
	if in.Answers.ConfigFileLanguage != FileTypeScript || !in.Answers.AddJiti {
		return acc
	}
	return acc.withDependencies("jiti")
}

// dedupeStep keeps one specifier per package, at the position the package
// first appeared. A versioned specifier beats a bare name; between two
// versioned specifiers the earlier one wins.
func dedupeStep(acc Accumulator, _ Input) Accumulator {
	out := make([]string, 0, len(acc.Dependencies))
	index := make(map[string]int, len(acc.Dependencies))

	for _, spec := range acc.Dependencies {
		name, versioned := splitSpecifier(spec)
		i, seen := index[name]
		if !seen {
			index[name] = len(out)
			out = append(out, spec)
			continue
		}
		if _, prevVersioned := splitSpecifier(out[i]); versioned && !prevVersioned {
			out[i] = spec
		}
	}

	acc.Dependencies = out
	return acc
}

func splitSpecifier(spec string) (name string, versioned bool) {
	if at := strings.LastIndex(spec, "@"); at > 0 {
		return spec[:at], true
	}
	return spec, false
}
