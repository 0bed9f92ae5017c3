// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/config"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/generator"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/installer"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/lint"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/manifest"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/peers"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/telemetry"
	"github.com/AleutianAI/createconfig/pkg/logging"
	"github.com/AleutianAI/createconfig/pkg/ux"
)

// errNotInteractive is returned when questions would be needed but stdin
// is not a terminal.
var errNotInteractive = errors.New("cannot prompt without a terminal; pass --config <package> to run non-interactively")

// run wires the real dependencies and runs the wizard.
func run(ctx context.Context, opts *options) error {
	cwd := opts.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining working directory: %w", err)
		}
		cwd = wd
	}

	settings, err := config.Load(config.LoadOptions{
		SettingsPath: opts.settingsPath,
		WorkDir:      cwd,
		Overrides: config.Overrides{
			Registry:    opts.registry,
			LogLevel:    opts.logLevel,
			Personality: opts.personality,
		},
	})
	if err != nil {
		return err
	}

	ux.InitPersonality(settings.Personality)

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger := logging.New(logging.Config{Level: level, LogDir: opts.logDir}).With("run_id", runID)
	defer logger.Close()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "createconfig",
		ServiceVersion: version,
		RunID:          runID,
		Enabled:        opts.trace,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	w := &wizard{
		opts:        opts,
		cwd:         cwd,
		settings:    settings,
		logger:      logger.Slog(),
		pm:          process.NewDefaultManager(),
		prompter:    &huhPrompter{accessible: os.Getenv("ACCESSIBLE") != ""},
		interactive: ux.IsTerminal(os.Stdin) && ux.IsTerminal(os.Stdout),
	}
	return w.run(ctx)
}

// wizard is one run of the question, derive, install and write flow.
type wizard struct {
	opts     *options
	cwd      string
	settings *config.Settings
	logger   *slog.Logger
	pm       process.Manager
	prompter Prompter

	// interactive is false when questions cannot be asked.
	interactive bool

	// httpClient overrides the registry client. Nil uses a client bounded
	// by the resolve timeout.
	httpClient *http.Client
}

func (w *wizard) run(ctx context.Context) error {
	manifestPath, err := manifest.Locate(w.cwd)
	if err != nil {
		return err
	}
	pkg, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	manifestDir := filepath.Dir(manifestPath)
	esm := manifest.IsModuleType(manifestPath)
	w.logger.Debug("Found manifest",
		slog.String("path", manifestPath),
		slog.String("name", pkg.Name),
		slog.Bool("esm", esm),
	)

	answers, err := w.answers(ctx)
	if err != nil {
		return err
	}

	result, err := w.derive(ctx, answers, esm)
	if err != nil {
		return err
	}

	ux.List("The config that you've selected requires the following dependencies:", result.DevDependencies)
	w.reportInstalled(result.DevDependencies)

	install, manager, err := w.installChoice(ctx, result.DevDependencies)
	if err != nil {
		return err
	}

	inst := installer.New(w.pm,
		installer.WithDir(w.cwd),
		installer.WithLogger(w.logger),
		installer.WithLintRunner(lint.NewRunner(w.pm,
			lint.WithTimeout(w.settings.FixTimeout),
			lint.WithLogger(w.logger),
		)),
	)

	installed := false
	if install {
		installed = w.install(ctx, inst, result, manager)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	configPath := filepath.Join(w.cwd, result.ConfigFileName)
	if err := installer.Persist(configPath, result.ConfigContent); err != nil {
		return err
	}

	if !installed {
		ux.Success(fmt.Sprintf("Successfully created %s file.", configPath))
		if !install {
			ux.Warning("You will need to install the dependencies yourself.")
		}
		return nil
	}

	w.postProcess(ctx, inst, manifestDir, configPath)
	return nil
}

// answers returns the flag-driven answers for --config, otherwise asks.
func (w *wizard) answers(ctx context.Context) (generator.Answers, error) {
	if w.opts.sharedConfig != "" {
		style := generator.StyleFlat
		if w.opts.eslintrc {
			style = generator.StyleESLintrc
		}
		return generator.Answers{
			ModuleType: generator.ModuleESM,
			SharedConfig: &generator.SharedConfig{
				PackageName: w.opts.sharedConfig,
				Style:       style,
			},
		}, nil
	}
	if !w.interactive {
		return generator.Answers{}, errNotInteractive
	}
	return w.prompter.Answers(ctx)
}

func (w *wizard) derive(ctx context.Context, answers generator.Answers, esm bool) (*generator.Result, error) {
	client := w.httpClient
	if client == nil {
		client = &http.Client{Timeout: w.settings.ResolveTimeout}
	}
	resolver, err := peers.NewResolver(w.pm,
		peers.WithRegistry(w.settings.Registry),
		peers.WithNPMCommand(w.settings.NPMCommand),
		peers.WithHTTPClient(client),
		peers.WithLogger(w.logger),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.settings.ResolveTimeout)
	defer cancel()

	gen := generator.New(resolver, generator.WithLogger(w.logger))
	if answers.SharedConfig == nil {
		return gen.Derive(ctx, answers, esm)
	}

	spin := ux.NewSpinner(fmt.Sprintf("Checking peerDependencies of %s", answers.SharedConfig.PackageName))
	spin.Start()
	defer spin.Stop()
	return gen.Derive(ctx, answers, esm)
}

// reportInstalled notes dependencies the manifest already lists. They are
// still installed so the requested versions apply.
func (w *wizard) reportInstalled(deps []string) {
	names := make([]string, len(deps))
	for i, dep := range deps {
		names[i] = peers.ParseSpecifier(dep).Name
	}
	present, err := manifest.CheckDevDeps(names, w.cwd)
	if err != nil {
		w.logger.Debug("Could not check devDependencies", slog.String("error", err.Error()))
		return
	}

	var listed []string
	for _, name := range names {
		if present[name] {
			listed = append(listed, name)
		}
	}
	if len(listed) > 0 {
		ux.Muted(fmt.Sprintf("Already in devDependencies: %s", strings.Join(listed, ", ")))
	}
}

// installChoice decides whether and how to install. Flags win over
// questions, and nothing is asked without a terminal.
func (w *wizard) installChoice(ctx context.Context, deps []string) (bool, string, error) {
	manager := w.opts.packageManager
	switch {
	case w.opts.noInstall:
		return false, "", nil
	case w.opts.yes:
		if manager == "" {
			manager = installer.SupportedManagers[0]
		}
		return true, manager, nil
	case !w.interactive:
		return false, "", nil
	}
	return w.prompter.Install(ctx, deps, manager)
}

// install runs the package manager. Failures are warnings: the config
// file is still written.
func (w *wizard) install(ctx context.Context, inst *installer.Installer, result *generator.Result, manager string) bool {
	if w.settings.InstallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.settings.InstallTimeout)
		defer cancel()
	}

	ux.Info("☕️ Installing...")
	err := inst.Install(ctx, result.DevDependencies, manager, result.InstallFlags)
	if err == nil {
		return true
	}

	var notFound *installer.ManagerNotFoundError
	switch {
	case errors.As(err, &notFound):
		ux.Warning(notFound.Error())
	case ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded):
		// Interrupted; run reports the cancellation.
	default:
		ux.Warning(fmt.Sprintf("Installing dependencies failed: %v", err))
	}
	w.logger.Warn("Install failed",
		slog.String("manager", manager),
		slog.String("error", err.Error()),
	)
	return false
}

// postProcess runs eslint --fix on the written file. Everything it finds
// is advisory.
func (w *wizard) postProcess(ctx context.Context, inst *installer.Installer, manifestDir, configPath string) {
	const advisory = "A config file was generated, but the config file itself may not follow your linting rules."

	res, err := inst.PostProcess(ctx, manifestDir, configPath)
	if err != nil {
		w.logger.Warn("Auto-fix failed", slog.String("error", err.Error()))
		ux.Warning(advisory)
		return
	}
	if res.HasIssues() {
		ux.Warning(advisory)
		for _, issue := range res.AllIssues() {
			ux.Finding(issue.Severity.String(), issue.Location(), issue.Message, issue.Rule)
		}
		return
	}
	ux.Success(fmt.Sprintf("Successfully created %s file.", configPath))
}
