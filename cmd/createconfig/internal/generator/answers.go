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
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/naming"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/peers"
)

// =============================================================================
// ANSWER ENUMS
// =============================================================================

// Language is a file category to lint.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangJSON       Language = "json"
	LangJSONC      Language = "jsonc"
	LangJSON5      Language = "json5"
	LangMarkdown   Language = "markdown"
	LangCSS        Language = "css"
)

// Languages lists every Language in prompt order.
var Languages = []Language{LangJavaScript, LangJSON, LangJSONC, LangJSON5, LangMarkdown, LangCSS}

// Purpose is how strict the generated config is.
type Purpose string

const (
	PurposeSyntax   Purpose = "syntax"
	PurposeProblems Purpose = "problems"
)

// ModuleType is the module system of the project's JavaScript.
type ModuleType string

const (
	ModuleESM      ModuleType = "esm"
	ModuleCommonJS ModuleType = "commonjs"
	ModuleScript   ModuleType = "script"
)

// Framework is the UI framework in use.
type Framework string

const (
	FrameworkReact Framework = "react"
	FrameworkVue   Framework = "vue"
	FrameworkNone  Framework = "none"
)

// Environment is a runtime whose globals are predefined.
type Environment string

const (
	EnvBrowser Environment = "browser"
	EnvNode    Environment = "node"
)

// MarkdownFlavor selects the markdown dialect.
type MarkdownFlavor string

const (
	MarkdownCommonMark MarkdownFlavor = "commonmark"
	MarkdownGFM        MarkdownFlavor = "gfm"
)

// FileLanguage is the language the config file itself is written in.
type FileLanguage string

const (
	FileJavaScript FileLanguage = "js"
	FileTypeScript FileLanguage = "ts"
)

// ConfigStyle is the format a shareable config is published in.
type ConfigStyle string

const (
	// StyleFlat configs export flat config objects and are imported directly.
	StyleFlat ConfigStyle = "flat"

	// StyleESLintrc configs are legacy and go through the compat shim.
	StyleESLintrc ConfigStyle = "eslintrc"
)

// =============================================================================
// ANSWERS
// =============================================================================

// SharedConfig is a third-party shareable config to extend.
type SharedConfig struct {
	// PackageName may carry a version, tag or range ("eslint-config-xo@0.45").
	PackageName string      `validate:"required"`
	Style       ConfigStyle `validate:"omitempty,oneof=flat eslintrc"`
}

// Answers is the complete answer set for one run.
//
// JavaScript-only answers (ModuleType, Framework, UseTypeScript,
// Environments, ConfigFileLanguage, AddJiti) are ignored unless Languages
// includes LangJavaScript.
type Answers struct {
	Languages      []Language     `validate:"dive,oneof=javascript json jsonc json5 markdown css"`
	Purpose        Purpose        `validate:"omitempty,oneof=syntax problems"`
	ModuleType     ModuleType     `validate:"omitempty,oneof=esm commonjs script"`
	Framework      Framework      `validate:"omitempty,oneof=react vue none"`
	UseTypeScript  bool
	Environments   []Environment  `validate:"dive,oneof=browser node"`
	MarkdownFlavor MarkdownFlavor `validate:"omitempty,oneof=commonmark gfm"`

	// ConfigFileLanguage is only meaningful with UseTypeScript.
	ConfigFileLanguage FileLanguage `validate:"omitempty,oneof=js ts"`

	// AddJiti registers jiti so older runtimes can load a TypeScript
	// config file.
	AddJiti bool

	SharedConfig *SharedConfig `validate:"omitempty"`
}

// Has reports whether lang was selected.
func (a Answers) Has(lang Language) bool {
	return slices.Contains(a.Languages, lang)
}

// ErrInvalidAnswers wraps answer validation failures.
var ErrInvalidAnswers = errors.New("invalid answers")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every answer against its allowed values. A shared config
// needs a package name that is not blank.
func (a Answers) Validate() error {
	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s=%v", fe.Namespace(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidAnswers, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}
	if a.SharedConfig != nil && strings.TrimSpace(a.SharedConfig.PackageName) == "" {
		return fmt.Errorf("%w: Answers.SharedConfig.PackageName=%q", ErrInvalidAnswers, a.SharedConfig.PackageName)
	}
	return nil
}

// Normalize returns a copy of a with defaults applied.
//
// # Description
//
//   - no languages means JavaScript only alongside a shared config; without
//     one the set stays empty and the config is the empty placeholder
//   - JavaScript-only answers are cleared when JavaScript is not selected
//   - environments are de-duplicated and sorted
//   - the config file language falls back to JavaScript without TypeScript,
//     and jiti is only kept for a TypeScript config file
//   - markdown defaults to CommonMark
//   - a shared config defaults to the flat style; eslintrc names are
//     expanded with the eslint-config prefix
//
// Normalize is idempotent.
func (a Answers) Normalize() Answers {
	out := a
	out.Languages = slices.Clone(a.Languages)
	if len(out.Languages) == 0 && a.SharedConfig != nil {
		out.Languages = []Language{LangJavaScript}
	}

	if out.Has(LangJavaScript) {
		if out.Framework == "" {
			out.Framework = FrameworkNone
		}
		out.Environments = slices.Compact(slices.Sorted(slices.Values(a.Environments)))
	} else {
		out.ModuleType = ""
		out.Framework = FrameworkNone
		out.UseTypeScript = false
		out.Environments = nil
	}

	if !out.UseTypeScript || out.ConfigFileLanguage == "" {
		out.ConfigFileLanguage = FileJavaScript
	}
	if out.ConfigFileLanguage != FileTypeScript {
		out.AddJiti = false
	}

	if out.Has(LangMarkdown) && out.MarkdownFlavor == "" {
		out.MarkdownFlavor = MarkdownCommonMark
	}

	if a.SharedConfig != nil {
		shared := *a.SharedConfig
		shared.PackageName = strings.TrimSpace(shared.PackageName)
		if shared.Style == "" {
			shared.Style = StyleFlat
		}
		if shared.Style == StyleESLintrc {
			spec := peers.ParseSpecifier(shared.PackageName)
			name := naming.NormalizePackageName(spec.Name, naming.ConfigPrefix)
			if strings.LastIndex(shared.PackageName, "@") > 0 {
				name += "@" + spec.Version
			}
			shared.PackageName = name
		}
		out.SharedConfig = &shared
	}
	return out
}
