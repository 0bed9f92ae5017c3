// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package peers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
)

func TestParseSpecifier(t *testing.T) {
	tests := []struct {
		in   string
		want Specifier
	}{
		{"eslint-config-xo", Specifier{"eslint-config-xo", "latest"}},
		{"eslint-config-xo@", Specifier{"eslint-config-xo", "latest"}},
		{"eslint-config-xo@0.45.0", Specifier{"eslint-config-xo", "0.45.0"}},
		{"eslint-config-xo@next", Specifier{"eslint-config-xo", "next"}},
		{"@scope/config", Specifier{"@scope/config", "latest"}},
		{"@scope/config@^2.0.0", Specifier{"@scope/config", "^2.0.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSpecifier(tt.in))
		})
	}
}

func TestDecodeDependencies_PreservesOrder(t *testing.T) {
	deps, err := decodeDependencies([]byte(`{"zeta":"^1","eslint":"^9.0.0","alpha":"*"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta@^1", "eslint@^9.0.0", "alpha@*"}, Join(deps))

	deps, err = decodeDependencies([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = decodeDependencies([]byte(`["eslint"]`))
	assert.Error(t, err)
}

func TestDecodeDependencies_BlankRangeMeansAny(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", `{"eslint":""}`, []string{"eslint@*"}},
		{"spaces", `{"eslint":"  ","eslint-plugin-n":"^17"}`, []string{"eslint@*", "eslint-plugin-n@^17"}},
		{"padded", `{"eslint":" ^9.0.0 "}`, []string{"eslint@^9.0.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, err := decodeDependencies([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Join(deps))
		})
	}
}

// npmReturning builds a resolver whose npm invocation yields res.
func npmReturning(t *testing.T, res *process.Result, err error) (*Resolver, *process.MockManager) {
	t.Helper()
	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return res, err
		},
	}
	r, rerr := NewResolver(mock)
	require.NoError(t, rerr)
	return r, mock
}

func TestFetch_NPM(t *testing.T) {
	t.Run("object output", func(t *testing.T) {
		r, mock := npmReturning(t, &process.Result{
			Stdout: []byte(`{"eslint":"^8.0.0","eslint-plugin-import":"^2"}` + "\n"),
		}, nil)

		got, err := r.Fetch(context.Background(), "eslint-config-standard")
		require.NoError(t, err)
		assert.Equal(t, []string{"eslint@^8.0.0", "eslint-plugin-import@^2"}, got)

		calls := mock.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "npm", calls[0].Name)
		assert.Equal(t, []string{"show", "--json", "eslint-config-standard", "peerDependencies"}, calls[0].Args)
	})

	t.Run("array output takes last", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{
			Stdout: []byte(`[{"eslint":"^7.0.0"},{"eslint":"^8.0.0"}]`),
		}, nil)

		got, err := r.Fetch(context.Background(), "eslint-config-standard@>=16")
		require.NoError(t, err)
		assert.Equal(t, []string{"eslint@^8.0.0"}, got)
	})

	t.Run("blank engine range", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{
			Stdout: []byte(`{"eslint":"","eslint-plugin-n":"^17"}`),
		}, nil)

		got, err := r.Fetch(context.Background(), "eslint-config-x")
		require.NoError(t, err)
		assert.Equal(t, []string{"eslint@*", "eslint-plugin-n@^17"}, got)
	})

	t.Run("empty output means no peers", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{Stdout: []byte("\n")}, nil)

		got, err := r.Fetch(context.Background(), "eslint-config-flat")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("E404 is not found", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{
			Stdout:   []byte(`{"error":{"code":"E404","summary":"Not Found - GET https://registry.npmjs.org/nope"}}`),
			ExitCode: 1,
		}, nil)

		_, err := r.Fetch(context.Background(), "nope@1.0.0")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPackageNotFound)
		assert.NotErrorIs(t, err, ErrUnavailable)

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "nope", nf.Name)
	})

	t.Run("other npm failure is unavailable", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{
			Stderr:   []byte(`{"error":{"code":"ENOTFOUND","summary":"request failed"}}`),
			ExitCode: 1,
		}, nil)

		_, err := r.Fetch(context.Background(), "eslint-config-xo")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.False(t, IsNotFound(err))
		assert.Contains(t, process.ExtractStderr(err), "ENOTFOUND")
	})

	t.Run("garbage output is unavailable", func(t *testing.T) {
		r, _ := npmReturning(t, &process.Result{Stdout: []byte(`{"eslint":`)}, nil)

		_, err := r.Fetch(context.Background(), "eslint-config-xo")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("launch failure is unavailable", func(t *testing.T) {
		r, _ := npmReturning(t, nil, fmt.Errorf("starting npm: %w", errors.New("permission denied")))

		_, err := r.Fetch(context.Background(), "eslint-config-xo")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

const xoPackument = `{
	"name": "eslint-config-xo",
	"dist-tags": {"latest": "0.45.0", "next": "1.0.0-beta.1"},
	"versions": {
		"0.43.0": {"peerDependencies": {"eslint": ">=8.56.0"}},
		"0.44.0": {"peerDependencies": {"eslint": ">=9.8.0", "typescript": ">=5"}},
		"0.45.0": {"peerDependencies": {"eslint": ">=9.25.0"}},
		"1.0.0-beta.1": {"peerDependencies": {"eslint": ">=10.0.0-0"}},
		"0.1.0": {}
	}
}`

// registryFallback starts a registry serving xoPackument and returns a
// resolver whose npm binary is missing.
func registryFallback(t *testing.T) (*Resolver, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		switch req.URL.EscapedPath() {
		case "/eslint-config-xo":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, xoPackument)
		case "/@scope%2Fconfig":
			fmt.Fprint(w, `{"dist-tags":{"latest":"2.0.0"},"versions":{"2.0.0":{"peerDependencies":{"eslint":"^9"}}}}`)
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"Not found"}`)
		}
	}))
	t.Cleanup(srv.Close)

	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return nil, fmt.Errorf("starting npm: %w", exec.ErrNotFound)
		},
	}
	r, err := NewResolver(mock, WithRegistry(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return r, &hits
}

func TestFetch_RegistryFallback(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"eslint-config-xo", []string{"eslint@>=9.25.0"}},
		{"eslint-config-xo@latest", []string{"eslint@>=9.25.0"}},
		{"eslint-config-xo@next", []string{"eslint@>=10.0.0-0"}},
		{"eslint-config-xo@0.44.0", []string{"eslint@>=9.8.0", "typescript@>=5"}},
		{"eslint-config-xo@~0.43", []string{"eslint@>=8.56.0"}},
		{"eslint-config-xo@^0.1.0", []string{}},
		{"@scope/config", []string{"eslint@^9"}},
	}

	r, _ := registryFallback(t)
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := r.Fetch(context.Background(), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetch_RegistryErrors(t *testing.T) {
	r, _ := registryFallback(t)

	t.Run("unknown version", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), "eslint-config-xo@9.9.9")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVersionNotFound)
		assert.ErrorIs(t, err, ErrPackageNotFound)
		assert.Contains(t, err.Error(), `"9.9.9"`)
		assert.Contains(t, err.Error(), `"eslint-config-xo"`)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), "eslint-config-xo@canary")
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), "does-not-exist")
		assert.ErrorIs(t, err, ErrPackageNotFound)
		assert.NotErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), "broken")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestFetch_RegistryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return nil, exec.ErrNotFound
		},
	}
	r, err := NewResolver(mock, WithRegistry(url))
	require.NoError(t, err)

	_, err = r.Fetch(context.Background(), "eslint-config-xo")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsNotFound(err))
}

func TestFetch_RegistryCache(t *testing.T) {
	r, hits := registryFallback(t)

	for range 3 {
		_, err := r.Fetch(context.Background(), "eslint-config-xo")
		require.NoError(t, err)
	}
	_, err := r.Fetch(context.Background(), "eslint-config-xo@0.44.0")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestNewResolver_InvalidCacheSize(t *testing.T) {
	_, err := NewResolver(&process.MockManager{}, WithCacheSize(0))
	assert.Error(t, err)
}

func TestNewResolver_NPMCommand(t *testing.T) {
	mock := &process.MockManager{}
	r, err := NewResolver(mock, WithNPMCommand("/opt/node/bin/npm"))
	require.NoError(t, err)

	_, err = r.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/opt/node/bin/npm", mock.Calls()[0].Name)
}
