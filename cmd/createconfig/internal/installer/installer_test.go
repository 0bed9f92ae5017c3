// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package installer

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/lint"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/process"
)

func TestInstallArgs(t *testing.T) {
	deps := []string{"eslint", "@eslint/js"}
	tests := []struct {
		manager   string
		flags     []string
		workspace bool
		want      []string
	}{
		{"npm", nil, false, []string{"install", "-D", "eslint", "@eslint/js"}},
		{"yarn", nil, false, []string{"add", "-D", "eslint", "@eslint/js"}},
		{"bun", []string{"--dev"}, false, []string{"add", "--dev", "eslint", "@eslint/js"}},
		{"pnpm", nil, false, []string{"add", "-D", "eslint", "@eslint/js"}},
		{"pnpm", nil, true, []string{"add", "-D", "-w", "eslint", "@eslint/js"}},
		{"npm", nil, true, []string{"install", "-D", "eslint", "@eslint/js"}},
	}
	for _, tt := range tests {
		t.Run(tt.manager, func(t *testing.T) {
			assert.Equal(t, tt.want, InstallArgs(tt.manager, tt.flags, deps, tt.workspace))
		})
	}
}

func TestInstall_RunsAttached(t *testing.T) {
	dir := t.TempDir()
	mock := &process.MockManager{}
	inst := New(mock, WithDir(dir))

	require.NoError(t, inst.Install(context.Background(), []string{"eslint", "globals"}, "npm", nil))

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, process.Command{
		Name:     "npm",
		Args:     []string{"install", "-D", "eslint", "globals"},
		Dir:      dir,
		Attached: true,
	}, calls[0])
}

func TestInstall_PnpmWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pnpm-workspace.yaml"), []byte("packages:\n  - packages/*\n"), 0o644))

	mock := &process.MockManager{}
	require.NoError(t, New(mock, WithDir(dir)).Install(context.Background(), []string{"eslint"}, "pnpm", nil))

	assert.Equal(t, []string{"add", "-D", "-w", "eslint"}, mock.Calls()[0].Args)

	// A workspace file only matters to pnpm.
	require.NoError(t, New(mock, WithDir(dir)).Install(context.Background(), []string{"eslint"}, "yarn", nil))
	assert.Equal(t, []string{"add", "-D", "eslint"}, mock.Calls()[1].Args)
}

func TestInstall_PnpmWorkspaceUnparsable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pnpm-workspace.yaml"), []byte("packages: [\n"), 0o644))

	mock := &process.MockManager{}
	require.NoError(t, New(mock, WithDir(dir)).Install(context.Background(), []string{"eslint"}, "pnpm", nil))
	assert.Contains(t, mock.Calls()[0].Args, "-w")
}

func TestInstall_ManagerNotFound(t *testing.T) {
	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return nil, exec.ErrNotFound
		},
	}

	err := New(mock).Install(context.Background(), []string{"eslint", "globals"}, "bun", nil)

	var nf *ManagerNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "bun", nf.Manager)
	assert.Equal(t,
		"Could not execute bun. Please install the following packages with a package manager of your choice: eslint, globals",
		err.Error())
	assert.ErrorIs(t, err, exec.ErrNotFound)

	single := &ManagerNotFoundError{Manager: "npm", Packages: []string{"eslint"}}
	assert.Contains(t, single.Error(), "following package with")
}

func TestInstall_NonZeroExit(t *testing.T) {
	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return &process.Result{ExitCode: 1}, nil
		},
	}

	err := New(mock).Install(context.Background(), []string{"eslint"}, "yarn", nil)

	var cerr *process.CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 1, cerr.ExitCode)
	assert.Equal(t, "yarn add -D eslint", cerr.Command)
}

func TestInstall_Validation(t *testing.T) {
	mock := &process.MockManager{}
	inst := New(mock)

	err := inst.Install(context.Background(), []string{"eslint"}, "deno", nil)
	assert.ErrorIs(t, err, ErrUnsupportedManager)

	require.NoError(t, inst.Install(context.Background(), nil, "npm", nil))
	assert.Empty(t, mock.Calls())
}

func TestPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eslint.config.mjs")

	require.NoError(t, Persist(path, "first\n"))
	require.NoError(t, Persist(path, "second\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm()&0o700)

	assert.Error(t, Persist(filepath.Join(t.TempDir(), "missing", "x.js"), ""))
}

func TestPostProcess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, lint.ESLintScript)
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0o755))
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	mock := &process.MockManager{
		RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
			return &process.Result{Stdout: []byte("[]")}, nil
		},
	}
	runner := lint.NewRunner(mock, lint.WithLookPath(func(string) (string, error) { return "node", nil }))
	inst := New(mock, WithLintRunner(runner))

	result, err := inst.PostProcess(context.Background(), dir, filepath.Join(dir, "eslint.config.js"))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = inst.PostProcess(context.Background(), t.TempDir(), "eslint.config.js")
	assert.ErrorIs(t, err, lint.ErrLinterNotInstalled)
}
