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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/peers"
)

var tracer = otel.Tracer("createconfig.generator")

// PeerResolver fetches a package's peer dependencies as "name@range".
//
// Implementations return an error matching peers.ErrUnavailable when the
// peers cannot be determined; any other error aborts derivation.
type PeerResolver interface {
	Fetch(ctx context.Context, spec string) ([]string, error)
}

// Result is the output of a derivation.
type Result struct {
	// DevDependencies lists package specifiers to install; the first is
	// always the lint engine.
	DevDependencies []string

	// ConfigFileName is the base name of the file to write.
	ConfigFileName string

	// ConfigContent is the file text, ending in exactly one newline.
	ConfigContent string

	// InstallFlags are passed to the package manager before the packages.
	InstallFlags []string

	// Config is the structure ConfigContent was rendered from.
	Config Config
}

// Generator derives lint configurations from answers.
//
// Thread Safety: Safe for concurrent use if the resolver is.
type Generator struct {
	resolver PeerResolver
	steps    []Step
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for degraded-path warnings.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSteps replaces the derivation rules. Intended for tests.
func WithSteps(steps []Step) Option {
	return func(g *Generator) {
		g.steps = steps
	}
}

// New creates a Generator. resolver may be nil when no shared config will
// be used; a shared config then derives as if its peers were unknown.
func New(resolver PeerResolver, opts ...Option) *Generator {
	g := &Generator{
		resolver: resolver,
		steps:    Steps(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Derive computes the dependency list and config file for answers.
//
// # Description
//
// Validates and normalizes answers, resolves the shared config's peer
// dependencies once, then folds the derivation steps and renders the
// result. Identical inputs produce identical results.
//
// # Inputs
//
//   - answers: The user's answers. Need not be normalized.
//   - moduleIsESM: Whether the project's manifest declares "type": "module".
//
// # Errors
//
//   - ErrInvalidAnswers: an answer has a value outside its enum.
//   - peers not-found errors (peers.ErrPackageNotFound): the shared config
//     does not exist. peers.ErrUnavailable is not returned; derivation
//     proceeds without peers and logs a warning.
//   - ctx.Err() when the context ends during resolution.
func (g *Generator) Derive(ctx context.Context, answers Answers, moduleIsESM bool) (*Result, error) {
	ctx, span := tracer.Start(ctx, "generator.Derive",
		trace.WithAttributes(
			attribute.Bool("generator.module_is_esm", moduleIsESM),
			attribute.Bool("generator.shared_config", answers.SharedConfig != nil),
		),
	)
	defer span.End()

	result, err := g.derive(ctx, answers, moduleIsESM)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("generator.file_name", result.ConfigFileName),
		attribute.Int("generator.dependency_count", len(result.DevDependencies)),
		attribute.Int("generator.entry_count", len(result.Config.Entries)),
	)
	return result, nil
}

func (g *Generator) derive(ctx context.Context, answers Answers, moduleIsESM bool) (*Result, error) {
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	in := Input{Answers: answers.Normalize(), ModuleIsESM: moduleIsESM}

	if shared := in.Answers.SharedConfig; shared != nil && g.resolver != nil {
		deps, err := g.resolver.Fetch(ctx, shared.PackageName)
		switch {
		case err == nil:
			in.Peers, in.PeersKnown = deps, true
		case errors.Is(err, peers.ErrUnavailable):
			g.logger.Warn("Could not determine peer dependencies, continuing without them",
				slog.String("package", shared.PackageName),
				slog.String("error", err.Error()),
			)
		default:
			return nil, fmt.Errorf("resolving peer dependencies of %s: %w", shared.PackageName, err)
		}
	}

	return Build(g.steps, in), nil
}

// Build folds steps over in and renders the outcome. It performs no I/O.
func Build(steps []Step, in Input) *Result {
	acc := Fold(steps, in)
	cfg := acc.Config()
	return &Result{
		DevDependencies: slices.Clone(acc.Dependencies),
		ConfigFileName:  acc.FileName,
		ConfigContent:   Render(cfg),
		InstallFlags:    []string{"-D"},
		Config:          cfg,
	}
}
