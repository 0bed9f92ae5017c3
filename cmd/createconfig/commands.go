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
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/createconfig/pkg/ux"
)

// options holds every command-line flag.
type options struct {
	sharedConfig   string // --config
	eslintrc       bool
	cwd            string
	yes            bool
	noInstall      bool
	packageManager string
	logLevel       string
	logDir         string
	personality    string
	trace          bool
	settingsPath   string
	registry       string
}

// errUsage marks flag combinations that cannot work together.
var errUsage = errors.New("invalid usage")

func newRootCmd(ctx context.Context, opts *options, runFn func(context.Context, *options) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createconfig",
		Short: "Create an ESLint flat config for your project",
		Long: `createconfig asks what you want to lint and how, then writes an
eslint.config file and lists (or installs) the packages it needs.

Pass --config <package> to start from a shareable config instead of
answering the questions.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runFn(cmd.Context(), opts)
		},
	}
	cmd.SetContext(ctx)

	f := cmd.Flags()
	f.StringVar(&opts.sharedConfig, "config", "", "extend this shareable config package and skip the questions")
	f.BoolVar(&opts.eslintrc, "eslintrc", false, "the --config package uses the legacy eslintrc format")
	f.StringVar(&opts.cwd, "cwd", "", "project directory (default: current directory)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "install dependencies without asking")
	f.BoolVar(&opts.noInstall, "no-install", false, "never install dependencies")
	f.StringVar(&opts.packageManager, "package-manager", "", "package manager for installs: npm, yarn, pnpm or bun")
	f.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn or error")
	f.StringVar(&opts.logDir, "log-dir", "", "also write JSON diagnostic logs to this directory")
	f.StringVar(&opts.personality, "personality", "", "output style: full, standard, minimal or machine")
	f.BoolVar(&opts.trace, "trace", false, "print OpenTelemetry spans and metrics to stderr")
	f.StringVar(&opts.settingsPath, "settings", "", "settings file (default: ~/.config/createconfig/settings.yaml)")
	f.StringVar(&opts.registry, "registry", "", "npm registry used when the npm CLI is unavailable")

	return cmd
}

func (o *options) validate() error {
	if o.eslintrc && o.sharedConfig == "" {
		return fmt.Errorf("%w: --eslintrc requires --config", errUsage)
	}
	if o.yes && o.noInstall {
		return fmt.Errorf("%w: --yes and --no-install are mutually exclusive", errUsage)
	}
	if o.packageManager != "" && !isSupportedManager(o.packageManager) {
		return fmt.Errorf("%w: unknown package manager %q", errUsage, o.packageManager)
	}
	return nil
}

// execute runs the root command and maps the outcome to an exit code.
func execute(ctx context.Context, args []string) int {
	opts := &options{}
	cmd := newRootCmd(ctx, opts, run)
	cmd.SetArgs(args)
	return exitCode(cmd.Execute(), cmd.ErrOrStderr())
}

// exitCode reports err to the user. Cancellation is a clean exit.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case isCanceled(err):
		ux.Warning("Operation canceled.")
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return 1
	default:
		ux.Error(err.Error())
		return 1
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled)
}
