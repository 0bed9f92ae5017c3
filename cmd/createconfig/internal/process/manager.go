// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Name is the executable name or path.
	Name string

	// Args are passed to the executable verbatim.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Attached connects the child to the terminal (stdin, stdout, stderr)
	// instead of capturing its output. Used for package manager installs
	// where the user should see progress.
	Attached bool
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the outcome of a completed process.
//
// Stdout and Stderr are empty for attached commands.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success returns true if the process exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Manager abstracts subprocess execution.
//
// # Description
//
// All exec.Command calls in createconfig go through this interface so
// that unit tests never spawn real npm or eslint processes.
//
// # Outputs
//
//   - *Result: Captured output and exit code. Non-nil whenever the process
//     actually ran, including non-zero exits.
//   - error: Non-nil only if the process could not be started (for example
//     exec.ErrNotFound) or ctx was cancelled.
type Manager interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// DefaultManager implements Manager using os/exec.
type DefaultManager struct {
	// stdin, stdout and stderr are the streams attached commands use.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewDefaultManager creates a Manager bound to the process's own terminal
// streams for attached commands.
func NewDefaultManager() *DefaultManager {
	return &DefaultManager{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes the command and waits for it to finish.
func (pm *DefaultManager) Run(ctx context.Context, cmd Command) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("process: ctx must not be nil")
	}
	if cmd.Name == "" {
		return nil, errors.New("process: command name must not be empty")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	if cmd.Attached {
		c.Stdin = pm.stdin
		c.Stdout = pm.stdout
		c.Stderr = pm.stderr
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	case errors.As(err, &exitErr):
		return &Result{
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	default:
		// Launch failure. *exec.Error unwraps to exec.ErrNotFound.
		return nil, fmt.Errorf("starting %s: %w", cmd.Name, err)
	}
}

// IsNotFound reports whether err means the executable does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

// -----------------------------------------------------------------------------
// Mock Implementation for Testing
// -----------------------------------------------------------------------------

// MockManager is a test double for Manager.
//
// Configure the mock by setting RunFunc before use. If RunFunc is nil, Run
// returns an empty successful result.
//
//	mock := &MockManager{
//	    RunFunc: func(ctx context.Context, cmd Command) (*Result, error) {
//	        if cmd.Name == "npm" {
//	            return &Result{Stdout: []byte(`{"eslint":"^9.0.0"}`)}, nil
//	        }
//	        return nil, exec.ErrNotFound
//	    },
//	}
type MockManager struct {
	// RunFunc is called when Run is invoked.
	RunFunc func(ctx context.Context, cmd Command) (*Result, error)

	calls []Command
	mu    sync.Mutex
}

// Run records the call and delegates to RunFunc.
func (m *MockManager) Run(ctx context.Context, cmd Command) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	fn := m.RunFunc
	m.mu.Unlock()

	if fn == nil {
		return &Result{}, nil
	}
	return fn(ctx, cmd)
}

// Calls returns a copy of all recorded commands.
func (m *MockManager) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Command, len(m.calls))
	copy(result, m.calls)
	return result
}

// Compile-time interface compliance checks.
var (
	_ Manager = (*DefaultManager)(nil)
	_ Manager = (*MockManager)(nil)
)
