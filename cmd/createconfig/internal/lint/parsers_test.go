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
	"testing"
)

func TestParseESLintOutput(t *testing.T) {
	t.Run("valid output with issues", func(t *testing.T) {
		// Real eslint --format=json output shape
		output := []byte(`[
			{
				"filePath": "/p/eslint.config.mjs",
				"messages": [
					{
						"ruleId": "no-unused-vars",
						"severity": 2,
						"message": "'x' is assigned a value but never used.",
						"line": 3,
						"column": 7,
						"suggestions": [
							{"desc": "Remove unused variable 'x'.", "fix": {"range": [10, 20], "text": ""}}
						]
					},
					{
						"ruleId": "prefer-const",
						"severity": 1,
						"message": "'y' is never reassigned.",
						"line": 4,
						"column": 5
					}
				],
				"errorCount": 1,
				"warningCount": 1
			}
		]`)

		issues, err := parseESLintOutput(output)
		if err != nil {
			t.Fatalf("parseESLintOutput: %v", err)
		}
		if len(issues) != 2 {
			t.Fatalf("Expected 2 issues, got %d", len(issues))
		}

		if issues[0].Rule != "no-unused-vars" {
			t.Errorf("Issue 0 Rule = %q, want no-unused-vars", issues[0].Rule)
		}
		if issues[0].Severity != SeverityError {
			t.Errorf("Issue 0 Severity = %v, want error", issues[0].Severity)
		}
		if !issues[0].CanAutoFix || issues[0].Suggestion != "Remove unused variable 'x'." {
			t.Errorf("Issue 0 suggestion not captured: %+v", issues[0])
		}
		if issues[0].File != "/p/eslint.config.mjs" {
			t.Errorf("Issue 0 File = %q", issues[0].File)
		}
		if issues[1].Severity != SeverityWarning {
			t.Errorf("Issue 1 Severity = %v, want warning", issues[1].Severity)
		}
		if issues[1].CanAutoFix {
			t.Error("Issue 1 should not be auto-fixable")
		}
	})

	t.Run("fatal parse error", func(t *testing.T) {
		output := []byte(`[{"filePath":"a.js","messages":[{"ruleId":null,"fatal":true,"severity":2,"message":"Parsing error: Unexpected token","line":1,"column":1}]}]`)
		issues, err := parseESLintOutput(output)
		if err != nil {
			t.Fatalf("parseESLintOutput: %v", err)
		}
		if len(issues) != 1 || issues[0].Severity != SeverityError || issues[0].Rule != "" {
			t.Errorf("unexpected issues: %+v", issues)
		}
	})

	t.Run("clean file", func(t *testing.T) {
		issues, err := parseESLintOutput([]byte(`[{"filePath":"a.js","messages":[],"errorCount":0}]`))
		if err != nil {
			t.Fatalf("parseESLintOutput: %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("Expected no issues, got %d", len(issues))
		}
	})

	t.Run("empty output", func(t *testing.T) {
		issues, err := parseESLintOutput([]byte("  \n"))
		if err != nil || issues != nil {
			t.Errorf("got %v, %v; want nil, nil", issues, err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseESLintOutput([]byte("Oops! Something went wrong!")); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}

func TestMapESLintSeverity(t *testing.T) {
	tests := []struct {
		msg  eslintMessage
		want Severity
	}{
		{eslintMessage{Severity: 2}, SeverityError},
		{eslintMessage{Severity: 1}, SeverityWarning},
		{eslintMessage{Severity: 0}, SeverityInfo},
		{eslintMessage{Severity: 0, Fatal: true}, SeverityError},
	}
	for _, tt := range tests {
		if got := mapESLintSeverity(tt.msg); got != tt.want {
			t.Errorf("mapESLintSeverity(%+v) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestLintIssueLocation(t *testing.T) {
	withCol := LintIssue{File: "a.js", Line: 3, Column: 7}
	if got := withCol.Location(); got != "a.js:3:7" {
		t.Errorf("Location() = %q", got)
	}
	noCol := LintIssue{File: "a.js", Line: 3}
	if got := noCol.Location(); got != "a.js:3" {
		t.Errorf("Location() = %q", got)
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" ||
		SeverityInfo.String() != "info" || Severity(9).String() != "unknown" {
		t.Error("unexpected Severity.String output")
	}
}
