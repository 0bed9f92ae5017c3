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
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Render serializes cfg as config file source.
//
// Layout: import declarations, a blank line, the compat prelude followed
// by a blank line when cfg.Compat is set, then the defineConfig export. An
// empty entry list renders as a single `{}` so eslint does not warn about
// an empty config. The result ends with exactly one newline.
func Render(cfg Config) string {
	var b strings.Builder

	for _, imp := range cfg.Imports {
		b.WriteString(renderImport(imp))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if cfg.Compat {
		for _, imp := range compatImports {
			if slices.ContainsFunc(cfg.Imports, imp.equal) {
				continue
			}
			b.WriteString(renderImport(imp))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		for _, stmt := range compatStatements {
			b.WriteString(stmt)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("export default defineConfig([\n")
	if len(cfg.Entries) == 0 {
		b.WriteString("  {}\n")
	}
	for _, e := range cfg.Entries {
		b.WriteString("  ")
		b.WriteString(renderEntry(e))
		b.WriteString(",\n")
	}
	b.WriteString("]);\n")

	return b.String()
}

func renderImport(imp Import) string {
	var bindings []string
	if imp.Default != "" {
		bindings = append(bindings, imp.Default)
	}
	if len(imp.Named) > 0 {
		bindings = append(bindings, "{ "+strings.Join(imp.Named, ", ")+" }")
	}
	return fmt.Sprintf("import %s from %s;", strings.Join(bindings, ", "), strconv.Quote(imp.From))
}

func renderEntry(e Entry) string {
	switch e := e.(type) {
	case Block:
		return renderBlock(e)
	case Reference:
		return e.Expr
	case CompatExtends:
		return "compat.extends(" + strconv.Quote(e.Name) + ")"
	default:
		panic(fmt.Sprintf("generator: unknown entry type %T", e))
	}
}

func renderBlock(b Block) string {
	var fields []string
	if len(b.Ignores) > 0 {
		fields = append(fields, "ignores: "+stringArray(b.Ignores))
	}
	if len(b.Files) > 0 {
		fields = append(fields, "files: "+stringArray(b.Files))
	}
	if len(b.Plugins) > 0 {
		fields = append(fields, "plugins: { "+strings.Join(b.Plugins, ", ")+" }")
	}
	if b.Language != "" {
		fields = append(fields, "language: "+strconv.Quote(b.Language))
	}
	if b.LanguageOptions != nil {
		fields = append(fields, "languageOptions: "+renderLanguageOptions(*b.LanguageOptions))
	}
	if len(b.Extends) > 0 {
		fields = append(fields, "extends: "+stringArray(b.Extends))
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

func renderLanguageOptions(o LanguageOptions) string {
	var fields []string
	if o.SourceType != "" {
		fields = append(fields, "sourceType: "+strconv.Quote(o.SourceType))
	}
	if len(o.Globals) > 0 {
		fields = append(fields, "globals: "+globalsExpr(o.Globals))
	}
	if o.Parser != "" {
		fields = append(fields, "parserOptions: { parser: "+o.Parser+" }")
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// globalsExpr names a single environment's globals directly and spreads
// several into one object.
func globalsExpr(envs []Environment) string {
	if len(envs) == 1 {
		return "globals." + string(envs[0])
	}
	parts := make([]string, len(envs))
	for i, env := range envs {
		parts[i] = "...globals." + string(env)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func stringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
