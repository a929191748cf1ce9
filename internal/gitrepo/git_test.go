// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gitrepo

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records commands and returns configured results.
type mockExecutor struct {
	lookPathErr error
	runErr      error
	stderr      string
	calls       [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.lookPathErr != nil {
		return "", m.lookPathErr
	}
	return "/usr/bin/" + file, nil
}

func (m *mockExecutor) Run(_ context.Context, _, stderr io.Writer, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.stderr != "" {
		io.WriteString(stderr, m.stderr)
	}
	return m.runErr
}

func TestClone_Args(t *testing.T) {
	m := &mockExecutor{}
	g := &Git{Depth: 1, exec: m}

	require.NoError(t, g.Clone(context.Background(), "https://example.com/repo", "/tmp/repo"))

	require.Len(t, m.calls, 1)
	assert.Equal(t, []string{"git", "clone", "--quiet", "--depth", "1", "https://example.com/repo", "/tmp/repo"}, m.calls[0])
}

func TestClone_FullHistory(t *testing.T) {
	m := &mockExecutor{}
	g := &Git{exec: m}

	require.NoError(t, g.Clone(context.Background(), "u", "d"))

	assert.Equal(t, []string{"git", "clone", "--quiet", "u", "d"}, m.calls[0])
}

func TestClone_FailureIncludesStderr(t *testing.T) {
	m := &mockExecutor{runErr: errors.New("exit status 128"), stderr: "fatal: repository not found\n"}
	g := &Git{exec: m}

	err := g.Clone(context.Background(), "u", "d")

	assert.ErrorContains(t, err, "exit status 128")
	assert.ErrorContains(t, err, "repository not found")
}

func TestClone_GitMissing(t *testing.T) {
	m := &mockExecutor{lookPathErr: errors.New("not found")}
	g := &Git{exec: m}

	assert.False(t, g.Available())
	assert.ErrorContains(t, g.Clone(context.Background(), "u", "d"), "git not found")
	assert.Empty(t, m.calls)
}
