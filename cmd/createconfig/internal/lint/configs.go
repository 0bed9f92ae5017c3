// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// DEFAULT LINTER CONFIGS
// =============================================================================

// ESLintScript is the eslint CLI entry point inside a project.
var ESLintScript = filepath.Join("node_modules", "eslint", "bin", "eslint.js")

// eslintFixArgs apply fixes, report only errors, and keep output parseable.
var eslintFixArgs = []string{"--fix", "--quiet", "--format=json"}

// DefaultJSConfig runs the project's eslint on JavaScript config files.
var DefaultJSConfig = LinterConfig{
	Language:   "javascript",
	Command:    "node",
	Script:     ESLintScript,
	Extensions: []string{".js", ".mjs", ".cjs"},
	Timeout:    60 * time.Second,
	FixArgs:    eslintFixArgs,
}

// DefaultTSConfig runs the project's eslint on TypeScript config files.
//
// Loading a .ts config needs either a runtime with type stripping or jiti
// installed next to eslint.
var DefaultTSConfig = LinterConfig{
	Language:   "typescript",
	Command:    "node",
	Script:     ESLintScript,
	Extensions: []string{".ts", ".mts", ".cts"},
	Timeout:    60 * time.Second,
	FixArgs:    eslintFixArgs,
}

// =============================================================================
// CONFIG REGISTRY
// =============================================================================

// ConfigRegistry manages linter configurations per language.
//
// Thread Safety: Safe for concurrent use after initialization.
type ConfigRegistry struct {
	mu      sync.RWMutex
	configs map[string]*LinterConfig

	// extensionMap maps file extensions to languages for quick lookup.
	extensionMap map[string]string
}

// NewConfigRegistry creates a new registry with default configurations.
func NewConfigRegistry() *ConfigRegistry {
	r := &ConfigRegistry{
		configs:      make(map[string]*LinterConfig),
		extensionMap: make(map[string]string),
	}
	r.Register(&DefaultJSConfig)
	r.Register(&DefaultTSConfig)
	return r
}

// Register adds or replaces a linter configuration.
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) Register(config *LinterConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[config.Language] = config.Clone()
	for _, ext := range config.Extensions {
		r.extensionMap[ext] = config.Language
	}
}

// Get returns a clone of the configuration for a language, or nil.
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) Get(language string) *LinterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[language]
	if !ok {
		return nil
	}
	return config.Clone()
}

// LanguageFromPath returns the language registered for filePath's
// extension, or "" when none is.
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) LanguageFromPath(filePath string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.extensionMap[strings.ToLower(filepath.Ext(filePath))]
}
