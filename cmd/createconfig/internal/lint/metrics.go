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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for lint operations.
var (
	tracer = otel.Tracer("createconfig.lint")
	meter  = otel.Meter("createconfig.lint")
)

// Metrics for fix runs.
var (
	fixLatency      metric.Float64Histogram
	fixTotal        metric.Int64Counter
	remainingIssues metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		fixLatency, err = meter.Float64Histogram(
			"lint_fix_duration_seconds",
			metric.WithDescription("Duration of lint fix runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		fixTotal, err = meter.Int64Counter(
			"lint_fix_total",
			metric.WithDescription("Total number of lint fix runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		remainingIssues, err = meter.Int64Histogram(
			"lint_fix_remaining_issues",
			metric.WithDescription("Issues left after a fix run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startFixSpan creates a span for a fix run.
func startFixSpan(ctx context.Context, language, filePath string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "lint.AutoFix",
		trace.WithAttributes(
			attribute.String("lint.language", language),
			attribute.String("lint.file_path", filePath),
		),
	)
}

// setFixSpanResult sets the result attributes on a fix span.
func setFixSpanResult(span trace.Span, result *LintResult) {
	span.SetAttributes(
		attribute.Int("lint.error_count", len(result.Errors)),
		attribute.Int("lint.warning_count", len(result.Warnings)),
		attribute.Bool("lint.valid", result.Valid),
	)
}

// recordFixMetrics records metrics for a fix run.
func recordFixMetrics(ctx context.Context, language string, duration time.Duration, issues int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("success", success),
	)
	fixLatency.Record(ctx, duration.Seconds(), attrs)
	fixTotal.Add(ctx, 1, attrs)

	if success {
		remainingIssues.Record(ctx, int64(issues), metric.WithAttributes(
			attribute.String("language", language),
		))
	}
}
