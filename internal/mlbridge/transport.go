// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package mlbridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Transport carries one encoded request to the model and returns the raw
// response document.
type Transport interface {
	RoundTrip(ctx context.Context, request []byte) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, request []byte) ([]byte, error)

// RoundTrip calls f.
func (f TransportFunc) RoundTrip(ctx context.Context, request []byte) ([]byte, error) {
	return f(ctx, request)
}

const (
	// maxStderr bounds the stderr excerpt included in errors.
	maxStderr = 512

	// waitDelay bounds how long a killed process may hold its pipes open.
	waitDelay = 250 * time.Millisecond
)

// ProcessTransport runs one model process per request. The request is written
// to stdin followed by a newline, the response is read from stdout, and a
// non-zero exit status is a failure.
type ProcessTransport struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// NewProcessTransport creates a transport for command with args.
func NewProcessTransport(command string, args ...string) *ProcessTransport {
	return &ProcessTransport{Command: command, Args: args}
}

// RoundTrip runs the process. The process is killed when ctx is done.
func (p *ProcessTransport) RoundTrip(ctx context.Context, request []byte) ([]byte, error) {
	if p.Command == "" {
		return nil, fmt.Errorf("%w: no command configured", ErrBridgeUnavailable)
	}

	//nolint:gosec // G204: command comes from operator configuration
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Dir = p.Dir
	cmd.WaitDelay = waitDelay
	if len(p.Env) > 0 {
		cmd.Env = p.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(append(bytes.Clone(request), '\n'))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("bridge process: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("bridge process exited with code %d: %s", exitErr.ExitCode(), excerpt(stderr.String()))
		}
		return nil, fmt.Errorf("bridge process: %w", err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("bridge process produced no output")
	}
	return out, nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[:maxStderr] + "..."
	}
	return s
}
