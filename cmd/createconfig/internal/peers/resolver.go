// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package peers resolves the peer dependencies a published package
// declares.
//
// The primary lookup runs "npm show --json <pkg> peerDependencies". When
// the npm binary is missing the resolver queries the registry over HTTP
// instead. Three outcomes are kept apart:
//
//   - a list (possibly empty) of "name@range" strings
//   - ErrUnavailable: nothing could answer, peers are unknown
//   - a not-found error: the package or version does not exist
//
// # Thread Safety
//
// A Resolver is safe for concurrent use. Registry metadata is cached in a
// bounded LRU shared by all callers.
package peers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
)

// Defaults for NewResolver.
const (
	DefaultRegistry   = "https://registry.npmjs.org"
	DefaultNPMCommand = "npm"
	DefaultCacheSize  = 64
	DefaultTimeout    = 30 * time.Second
)

const (
	sourceNPM      = "npm"
	sourceRegistry = "registry"
)

var tracer = otel.Tracer("createconfig.peers")

// Resolver looks up peer dependencies.
type Resolver struct {
	pm        process.Manager
	client    *http.Client
	registry  string
	npm       string
	cacheSize int
	cache     *lru.Cache[string, *packument]
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry sets the registry base URL used by the HTTP fallback.
func WithRegistry(url string) Option {
	return func(r *Resolver) {
		if url != "" {
			r.registry = url
		}
	}
}

// WithHTTPClient sets the client used by the HTTP fallback.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithNPMCommand overrides the npm executable.
func WithNPMCommand(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.npm = name
		}
	}
}

// WithCacheSize bounds the registry metadata cache.
func WithCacheSize(n int) Option {
	return func(r *Resolver) {
		r.cacheSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver that runs npm through pm.
//
// # Errors
//
// Fails only when the cache size is not positive.
func NewResolver(pm process.Manager, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		pm:        pm,
		client:    &http.Client{Timeout: DefaultTimeout},
		registry:  DefaultRegistry,
		npm:       DefaultNPMCommand,
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.New[string, *packument](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating registry cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Fetch returns the peer dependencies of spec as "name@range" strings in
// the order the package declares them.
//
// # Description
//
// spec is "name", "name@version", "name@tag" or "name@range"; scoped names
// are supported. An empty result means the package declares no peers.
//
// # Errors
//
//   - ErrUnavailable: npm failed for a reason other than a missing package,
//     or the registry could not be reached. Treat as "unknown".
//   - *NotFoundError (matches ErrPackageNotFound, and ErrVersionNotFound
//     when a version was named): the package or version does not exist.
//   - ctx.Err() when the context ends first.
func (r *Resolver) Fetch(ctx context.Context, spec string) ([]string, error) {
	deps, err := r.FetchDependencies(ctx, spec)
	if err != nil {
		return nil, err
	}
	return Join(deps), nil
}

// FetchDependencies is Fetch without rendering the result.
func (r *Resolver) FetchDependencies(ctx context.Context, spec string) ([]Dependency, error) {
	ctx, span := tracer.Start(ctx, "peers.Fetch",
		trace.WithAttributes(attribute.String("peers.specifier", spec)),
	)
	defer span.End()

	deps, source, err := r.fetch(ctx, spec)
	span.SetAttributes(attribute.String("peers.source", source))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("peers.count", len(deps)))
	r.logger.Debug("Resolved peer dependencies",
		slog.String("specifier", spec),
		slog.String("source", source),
		slog.Int("count", len(deps)),
	)
	return deps, nil
}

func (r *Resolver) fetch(ctx context.Context, spec string) ([]Dependency, string, error) {
	cmd := process.Command{
		Name: r.npm,
		Args: []string{"show", "--json", spec, "peerDependencies"},
	}

	res, err := r.pm.Run(ctx, cmd)
	switch {
	case err == nil:
	case process.IsNotFound(err):
		r.logger.Debug("npm not found, querying registry",
			slog.String("registry", r.registry),
		)
		deps, err := r.fromRegistry(ctx, ParseSpecifier(spec))
		return deps, sourceRegistry, err
	case ctx.Err() != nil:
		return nil, sourceNPM, ctx.Err()
	default:
		return nil, sourceNPM, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if !res.Success() {
		code, summary := npmErrorCode(res.Stdout, res.Stderr)
		if code == "E404" {
			r.logger.Debug("npm reported missing package", slog.String("summary", summary))
			return nil, sourceNPM, &NotFoundError{Name: ParseSpecifier(spec).Name}
		}
		cmdErr := process.NewCommandError(cmd.String(), res.ExitCode, string(res.Stderr), nil)
		return nil, sourceNPM, fmt.Errorf("%w: %w", ErrUnavailable, cmdErr)
	}

	deps, err := parseShowOutput(res.Stdout)
	if err != nil {
		return nil, sourceNPM, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return deps, sourceNPM, nil
}
