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
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// ESLINT PARSER
// =============================================================================

// eslintOutput represents the JSON output from ESLint.
type eslintOutput []eslintFile

type eslintFile struct {
	FilePath     string          `json:"filePath"`
	Messages     []eslintMessage `json:"messages"`
	ErrorCount   int             `json:"errorCount"`
	WarningCount int             `json:"warningCount"`
}

type eslintMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    int                `json:"severity"` // 1 = warning, 2 = error
	Fatal       bool               `json:"fatal"`
	Message     string             `json:"message"`
	Line        int                `json:"line"`
	Column      int                `json:"column"`
	Fix         *eslintFix         `json:"fix"`
	Suggestions []eslintSuggestion `json:"suggestions"`
}

type eslintFix struct {
	Range [2]int `json:"range"`
	Text  string `json:"text"`
}

type eslintSuggestion struct {
	Desc string    `json:"desc"`
	Fix  eslintFix `json:"fix"`
}

// parseESLintOutput parses JSON output from ESLint.
//
// Description:
//
//	eslint --format=json produces an array of file results, each with its
//	remaining messages. Empty output (eslint printed nothing) means no
//	findings.
//
// Inputs:
//
//	data - Raw stdout from eslint --format=json
//
// Outputs:
//
//	[]LintIssue - Parsed issues, in eslint's order
//	error - Non-nil if JSON parsing fails
func parseESLintOutput(data []byte) ([]LintIssue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var output eslintOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing eslint output: %w", err)
	}

	var issues []LintIssue
	for _, file := range output {
		for _, msg := range file.Messages {
			issue := LintIssue{
				File:     file.FilePath,
				Line:     msg.Line,
				Column:   msg.Column,
				Rule:     msg.RuleID,
				Severity: mapESLintSeverity(msg),
				Message:  msg.Message,
				Linter:   "eslint",
			}
			if msg.Fix != nil {
				issue.CanAutoFix = true
			}
			if len(msg.Suggestions) > 0 {
				issue.CanAutoFix = true
				issue.Suggestion = msg.Suggestions[0].Desc
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// mapESLintSeverity maps ESLint numeric severity to Severity.
func mapESLintSeverity(msg eslintMessage) Severity {
	if msg.Fatal {
		return SeverityError
	}
	switch msg.Severity {
	case 2:
		return SeverityError
	case 1:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
