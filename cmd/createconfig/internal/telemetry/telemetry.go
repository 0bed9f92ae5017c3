// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry installs the otel providers for one CLI run.
//
// Tracing is off by default: the global otel providers stay no-ops and
// every span in the program costs nothing. With --trace, spans and
// metrics are written as JSON to the configured writer (stderr by
// default) when the run ends.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// ErrNilContext is returned when Init is called with a nil context.
var ErrNilContext = errors.New("telemetry: nil context")

// Config controls telemetry behavior.
type Config struct {
	// ServiceName identifies this program in exported spans.
	ServiceName string

	ServiceVersion string

	// RunID is attached to every span and metric.
	RunID string

	// Enabled turns on the stdout exporters.
	Enabled bool

	// Writer receives exported telemetry. Defaults to os.Stderr.
	Writer io.Writer
}

// Shutdown flushes and stops the providers Init installed.
type Shutdown func(context.Context) error

// Init installs tracer and meter providers according to cfg.
//
// Description:
//
//	When cfg.Enabled is false nothing is installed and the returned
//	Shutdown is a no-op.
//
// Outputs:
//
//	Shutdown - Must be called before exit so buffered spans are written.
//	error - Non-nil if an exporter cannot be created.
//
// Thread Safety: Call once at startup.
func Init(ctx context.Context, cfg Config) (Shutdown, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("createconfig.run_id", cfg.RunID),
	)

	spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(spanExporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter)),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
