// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint runs a project's eslint in fix mode and parses what is left.
//
// After the wizard writes a config file and installs its dependencies, the
// file is passed through the freshly installed eslint with --fix so it
// matches the project's formatting rules. Findings are parsed from eslint's
// JSON formatter into LintIssue values.
//
// # Usage
//
//	runner := lint.NewRunner(process.NewDefaultManager())
//	result, err := runner.AutoFix(ctx, projectDir, "eslint.config.mjs")
//	if err != nil {
//	    // advisory: the config file is already written
//	}
//	for _, issue := range result.Errors {
//	    fmt.Println(issue.Location(), issue.Message)
//	}
//
// # Errors
//
// All runner failures are *LinterError values wrapping one of the package
// sentinels, so callers can use errors.Is(err, lint.ErrLinterNotInstalled).
//
// # Observability
//
// Each run creates a "lint.AutoFix" span and records duration, run count
// and remaining-issue metrics through the global otel meter.
package lint
