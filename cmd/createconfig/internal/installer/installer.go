// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package installer installs the derived dependencies, writes the config
// file and runs the project's eslint over it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/lint"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/manifest"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
)

var tracer = otel.Tracer("createconfig.installer")

// SupportedManagers are the package managers Install knows how to drive,
// in the order they are offered to the user.
var SupportedManagers = []string{"npm", "yarn", "pnpm", "bun"}

// ErrUnsupportedManager is returned for a manager not in SupportedManagers.
var ErrUnsupportedManager = errors.New("unsupported package manager")

// DefaultFlags are used when Install is given no flags.
var DefaultFlags = []string{"-D"}

// ManagerNotFoundError means the package manager executable is missing.
// Its message tells the user what to install by hand.
type ManagerNotFoundError struct {
	Manager  string
	Packages []string
	Err      error
}

func (e *ManagerNotFoundError) Error() string {
	plural := ""
	if len(e.Packages) > 1 {
		plural = "s"
	}
	return fmt.Sprintf("Could not execute %s. Please install the following package%s with a package manager of your choice: %s",
		e.Manager, plural, strings.Join(e.Packages, ", "))
}

func (e *ManagerNotFoundError) Unwrap() error {
	return e.Err
}

// Installer runs package manager installs and post-processing.
//
// Thread Safety: Safe for concurrent use if the process.Manager is.
type Installer struct {
	pm     process.Manager
	runner *lint.Runner
	dir    string
	logger *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithDir sets the directory installs run in. Defaults to the current
// directory.
func WithDir(dir string) Option {
	return func(i *Installer) {
		i.dir = dir
	}
}

// WithLintRunner replaces the runner PostProcess uses.
func WithLintRunner(r *lint.Runner) Option {
	return func(i *Installer) {
		i.runner = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) {
		if l != nil {
			i.logger = l
		}
	}
}

// New creates an Installer that runs commands through pm.
func New(pm process.Manager, opts ...Option) *Installer {
	i := &Installer{
		pm:     pm,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.runner == nil {
		i.runner = lint.NewRunner(pm, lint.WithLogger(i.logger))
	}
	return i
}

// InstallArgs builds the argument list for installing deps with manager.
//
// npm uses "install", the others "add". workspaceRoot appends pnpm's -w so
// the packages land in the workspace root manifest.
func InstallArgs(manager string, flags, deps []string, workspaceRoot bool) []string {
	sub := "add"
	if manager == "npm" {
		sub = "install"
	}
	if len(flags) == 0 {
		flags = DefaultFlags
	}

	args := make([]string, 0, len(flags)+len(deps)+2)
	args = append(args, sub)
	args = append(args, flags...)
	if manager == "pnpm" && workspaceRoot {
		args = append(args, "-w")
	}
	return append(args, deps...)
}

// Install installs deps with the given package manager.
//
// # Description
//
// Runs the manager attached to the terminal so the user sees its progress.
// Installing into a pnpm workspace root adds -w.
//
// # Errors
//
//   - ErrUnsupportedManager: manager is not in SupportedManagers.
//   - *ManagerNotFoundError: the manager executable is not installed.
//   - *process.CommandError: the manager exited non-zero.
func (i *Installer) Install(ctx context.Context, deps []string, manager string, flags []string) error {
	ctx, span := tracer.Start(ctx, "installer.Install",
		trace.WithAttributes(
			attribute.String("installer.manager", manager),
			attribute.Int("installer.package_count", len(deps)),
		),
	)
	defer span.End()

	if err := i.install(ctx, deps, manager, flags); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (i *Installer) install(ctx context.Context, deps []string, manager string, flags []string) error {
	if !slices.Contains(SupportedManagers, manager) {
		return fmt.Errorf("%w: %q", ErrUnsupportedManager, manager)
	}
	if len(deps) == 0 {
		return nil
	}

	cmd := process.Command{
		Name:     manager,
		Args:     InstallArgs(manager, flags, deps, manager == "pnpm" && i.isWorkspaceRoot()),
		Dir:      i.dir,
		Attached: true,
	}
	i.logger.Info("Installing packages",
		slog.String("command", cmd.String()),
		slog.Int("count", len(deps)),
	)

	res, err := i.pm.Run(ctx, cmd)
	if err != nil {
		if process.IsNotFound(err) {
			return &ManagerNotFoundError{Manager: manager, Packages: slices.Clone(deps), Err: err}
		}
		return err
	}
	if !res.Success() {
		return process.NewCommandError(cmd.String(), res.ExitCode, string(res.Stderr), nil)
	}
	return nil
}

func (i *Installer) isWorkspaceRoot() bool {
	dir := i.dir
	if dir == "" {
		dir = "."
	}
	path, ok := manifest.FindPnpmWorkspace(dir)
	if !ok {
		return false
	}

	ws, err := manifest.LoadPnpmWorkspace(path)
	if err != nil {
		i.logger.Warn("Could not parse pnpm workspace file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return true
	}
	i.logger.Debug("Installing at pnpm workspace root",
		slog.String("path", path),
		slog.Any("packages", ws.Packages),
	)
	return true
}

// Persist writes content to path verbatim, creating or truncating it.
func Persist(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// PostProcess runs the project's eslint with --fix over the written config.
//
// Failures are advisory: the config file already exists, so callers
// should report the error and carry on.
func (i *Installer) PostProcess(ctx context.Context, manifestDir, configPath string) (*lint.LintResult, error) {
	result, err := i.runner.AutoFix(ctx, manifestDir, configPath)
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", configPath, err)
	}
	return result, nil
}
