// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gitrepo clones remote git repositories with the git binary.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const binGit = "git"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Git runs clone operations. Depth limits history; zero clones everything.
type Git struct {
	Depth int
	exec  executor
}

// New returns a Git backed by the git binary on PATH.
func New() *Git {
	return &Git{Depth: 1, exec: osExecutor{}}
}

// Available reports whether the git binary is on PATH.
func (g *Git) Available() bool {
	_, err := g.exec.LookPath(binGit)
	return err == nil
}

// Clone clones url into dest. On failure the error carries git's stderr.
func (g *Git) Clone(ctx context.Context, url, dest string) error {
	if !g.Available() {
		return fmt.Errorf("%s not found on PATH", binGit)
	}

	args := []string{"clone", "--quiet"}
	if g.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(g.Depth))
	}
	args = append(args, url, dest)

	var stderr bytes.Buffer
	if err := g.exec.Run(ctx, io.Discard, &stderr, binGit, args...); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("cloning %s: %w: %s", url, err, msg)
		}
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}
