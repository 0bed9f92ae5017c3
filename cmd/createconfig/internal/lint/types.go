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
	"strconv"
	"time"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of a lint issue.
type Severity int

const (
	// SeverityInfo is anything eslint reports below warning level.
	SeverityInfo Severity = iota

	// SeverityWarning is a rule configured as "warn".
	SeverityWarning

	// SeverityError is a rule configured as "error", or a fatal parse error.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// LINTER CONFIG
// =============================================================================

// LinterConfig configures how to run the project-local linter.
//
// Thread Safety: Treat as immutable after creation.
type LinterConfig struct {
	// Language is the config file language this entry handles.
	Language string

	// Command is the interpreter executable (e.g., "node").
	Command string

	// Script is the linter entry point relative to the project directory.
	Script string

	// Extensions are file extensions this linter handles.
	Extensions []string

	// Timeout is the maximum time to wait for the linter.
	Timeout time.Duration

	// FixArgs are the arguments placed between Script and the file path.
	FixArgs []string
}

// Clone returns a deep copy of the config.
func (c *LinterConfig) Clone() *LinterConfig {
	clone := *c
	clone.Extensions = append([]string(nil), c.Extensions...)
	clone.FixArgs = append([]string(nil), c.FixArgs...)
	return &clone
}

// =============================================================================
// LINT RESULT
// =============================================================================

// LintResult contains the findings left after a fix run.
//
// Thread Safety: Immutable after creation by the runner.
type LintResult struct {
	// Valid is true if no errors remain.
	Valid bool `json:"valid"`

	Errors   []LintIssue `json:"errors"`
	Warnings []LintIssue `json:"warnings"`
	Infos    []LintIssue `json:"infos,omitempty"`

	// Duration is how long the linter took to run.
	Duration time.Duration `json:"duration"`

	// Linter is which linter produced this result.
	Linter string `json:"linter"`

	// Language is the language of the file that was fixed.
	Language string `json:"language"`

	// FilePath is the file that was fixed.
	FilePath string `json:"file_path,omitempty"`
}

// HasErrors returns true if there are any remaining errors.
func (r *LintResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasIssues returns true if there are any issues of any severity.
func (r *LintResult) HasIssues() bool {
	return r.IssueCount() > 0
}

// AllIssues returns all issues, errors first.
func (r *LintResult) AllIssues() []LintIssue {
	issues := make([]LintIssue, 0, r.IssueCount())
	issues = append(issues, r.Errors...)
	issues = append(issues, r.Warnings...)
	issues = append(issues, r.Infos...)
	return issues
}

// IssueCount returns the total number of issues.
func (r *LintResult) IssueCount() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Infos)
}

// newResult sorts issues into buckets by severity.
func newResult(issues []LintIssue) *LintResult {
	r := &LintResult{
		Errors:   make([]LintIssue, 0),
		Warnings: make([]LintIssue, 0),
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, issue)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, issue)
		default:
			r.Infos = append(r.Infos, issue)
		}
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// =============================================================================
// LINT ISSUE
// =============================================================================

// LintIssue represents a single finding.
//
// Thread Safety: Immutable after creation.
type LintIssue struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`

	// Rule is the rule id. Empty for fatal parse errors.
	Rule string `json:"rule"`

	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	// CanAutoFix is set when eslint offered a fix or suggestion it did not
	// apply.
	CanAutoFix bool `json:"can_auto_fix"`

	// Suggestion is the first suggestion's description, if any.
	Suggestion string `json:"suggestion,omitempty"`

	Linter string `json:"linter,omitempty"`
}

// Location returns a formatted location string (file:line:col).
func (i *LintIssue) Location() string {
	loc := i.File + ":" + strconv.Itoa(i.Line)
	if i.Column > 0 {
		loc += ":" + strconv.Itoa(i.Column)
	}
	return loc
}
