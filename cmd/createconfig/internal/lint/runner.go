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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
)

// =============================================================================
// LINT RUNNER
// =============================================================================

// Runner runs a project's own linter in fix mode.
//
// Description:
//
//	The linter is always the copy installed in the project
//	(node_modules/eslint), started through the interpreter named by the
//	LinterConfig. Nothing global is used, so the fix run sees exactly the
//	plugins that were just installed.
//
// Thread Safety: Safe for concurrent use on different files.
type Runner struct {
	pm       process.Manager
	configs  *ConfigRegistry
	lookPath func(string) (string, error)
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithConfigs sets a custom config registry.
func WithConfigs(configs *ConfigRegistry) Option {
	return func(r *Runner) {
		r.configs = configs
	}
}

// WithLookPath replaces exec.LookPath for interpreter detection.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) {
		r.lookPath = fn
	}
}

// WithTimeout overrides the per-config timeout. Zero keeps the config's.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner that executes commands through pm.
func NewRunner(pm process.Manager, opts ...Option) *Runner {
	r := &Runner{
		pm:       pm,
		configs:  NewConfigRegistry(),
		lookPath: exec.LookPath,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configs returns the runner's config registry.
func (r *Runner) Configs() *ConfigRegistry {
	return r.configs
}

// IsAvailable reports whether the linter for language can run in projectDir.
//
// Description:
//
//	Requires the interpreter on PATH and the linter script installed in
//	the project.
func (r *Runner) IsAvailable(projectDir, language string) bool {
	config := r.configs.Get(language)
	if config == nil {
		return false
	}
	return r.checkAvailable(projectDir, config) == nil
}

func (r *Runner) checkAvailable(projectDir string, config *LinterConfig) error {
	if _, err := r.lookPath(config.Command); err != nil {
		return NewLinterError("eslint", config.Language, ErrLinterNotInstalled).
			WithOutput(config.Command + " not found on PATH")
	}
	script := filepath.Join(projectDir, config.Script)
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return NewLinterError("eslint", config.Language, ErrLinterNotInstalled).
			WithOutput(script + " not found")
	}
	return nil
}

// AutoFix runs the linter in fix mode on a file.
//
// Description:
//
//	Executes the project's eslint with --fix on filePath. The file is
//	modified in place. eslint exits 0 when nothing remains and 1 when
//	unfixable errors remain; both are successes here and the remaining
//	findings are returned. Any other exit is a LinterError.
//
// Inputs:
//
//	ctx - Context for cancellation
//	projectDir - Directory holding node_modules; also the working directory
//	filePath - File to fix, absolute or relative to projectDir
//
// Outputs:
//
//	*LintResult - Findings left after fixes were applied
//	error - Non-nil if the linter could not run or failed
//
// Thread Safety: Safe for concurrent use on different files.
// NOT safe to run on the same file concurrently.
func (r *Runner) AutoFix(ctx context.Context, projectDir, filePath string) (*LintResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	if filePath == "" {
		return nil, fmt.Errorf("%w: filePath must not be empty", ErrInvalidInput)
	}

	language := r.configs.LanguageFromPath(filePath)
	if language == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(filePath))
	}
	config := r.configs.Get(language)

	ctx, span := startFixSpan(ctx, language, filePath)
	defer span.End()

	start := time.Now()
	result, err := r.autoFix(ctx, projectDir, filePath, config)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordFixMetrics(ctx, language, duration, 0, false)
		return nil, err
	}

	result.Duration = duration
	result.Language = language
	result.FilePath = filePath
	setFixSpanResult(span, result)
	recordFixMetrics(ctx, language, duration, result.IssueCount(), true)

	r.logger.Debug("Lint fix completed",
		slog.String("file", filePath),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", duration),
	)
	return result, nil
}

func (r *Runner) autoFix(ctx context.Context, projectDir, filePath string, config *LinterConfig) (*LintResult, error) {
	if err := r.checkAvailable(projectDir, config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if r.timeout > 0 {
		timeout = r.timeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := make([]string, 0, len(config.FixArgs)+2)
	args = append(args, filepath.Join(projectDir, config.Script))
	args = append(args, config.FixArgs...)
	args = append(args, filePath)

	res, err := r.pm.Run(runCtx, process.Command{
		Name: config.Command,
		Args: args,
		Dir:  projectDir,
	})
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, NewLinterError("eslint", config.Language, ErrLinterTimeout)
		case process.IsNotFound(err):
			return nil, NewLinterError("eslint", config.Language, ErrLinterNotInstalled)
		default:
			return nil, NewLinterError("eslint", config.Language, fmt.Errorf("%w: %v", ErrLinterFailed, err))
		}
	}

	if res.ExitCode != 0 && res.ExitCode != 1 {
		return nil, NewLinterError("eslint", config.Language, ErrLinterFailed).
			WithOutput(strings.TrimSpace(string(res.Stderr)))
	}

	issues, err := parseESLintOutput(res.Stdout)
	if err != nil {
		return nil, NewLinterError("eslint", config.Language, fmt.Errorf("%w: %v", ErrParseOutput, err))
	}
	result := newResult(issues)
	result.Linter = "eslint"
	return result, nil
}
