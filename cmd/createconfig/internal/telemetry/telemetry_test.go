// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{Writer: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "disabled.span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the input under test
	_, err := Init(nil, Config{})
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestInit_Enabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		ServiceName: "createconfig",
		RunID:       "run-123",
		Enabled:     true,
		Writer:      &buf,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, span := otel.Tracer("test").Start(ctx, "enabled.span")
	span.End()

	counter, err := otel.Meter("test").Int64Counter("test_runs_total")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "enabled.span")
	assert.Contains(t, out, "run-123")
	assert.Contains(t, out, "test_runs_total")
}
