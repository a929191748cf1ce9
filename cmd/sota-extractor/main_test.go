// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

const page = `# Named entity recognition

Label spans of text.

### CoNLL 2003 (English)

| Model | F1 | Paper / Source | Code |
| --- | --- | --- | --- |
| LUKE (Yamada et al., 2020) | 94.3 | [LUKE](https://arxiv.org/abs/2010.01057) | [Official](https://github.com/studio-ousia/luke) |
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ner.md"), []byte(page), 0o644))
	output := filepath.Join(dir, "out", "tasks.yaml")

	execute(t, "parse", dir, "--output", output)

	tdb := taskdb.New()
	require.NoError(t, tdb.Load(taskdb.LoadOptions{Files: []string{output}}))
	task := tdb.GetTask("Named Entity Recognition")
	require.NotNil(t, task)
	require.Len(t, task.Datasets, 1)
	row := task.Datasets[0].Sota.Rows[0]
	assert.Equal(t, "LUKE (2020)", row.ModelName)
	assert.Equal(t, "94.3", row.Metrics["F1"])
	assert.Equal(t, "https://github.com/studio-ousia/luke", row.CodeLinks[0].URL)
}

func TestIndexAndQueryCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ner.md"), []byte(page), 0o644))
	exported := filepath.Join(dir, "tasks.json")
	db := filepath.Join(dir, "index", "sota.db")

	execute(t, "parse", filepath.Join(dir, "ner.md"), "-o", exported)
	out := execute(t, "index", "store", exported, "--db", db)
	assert.Contains(t, out, "indexing Named Entity Recognition (1 rows)")

	out = execute(t, "query", "luke", "--db", db)
	assert.Contains(t, out, "LUKE (2020)")
	assert.Contains(t, out, "F1=94.3")

	published := filepath.Join(dir, "published")
	out = execute(t, "publish", published, "--db", db, "--format", "yaml")
	assert.Contains(t, out, "Published 1 tasks")
	_, err := os.Stat(filepath.Join(published, "sota.yaml"))
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "sota-extractor dev\n", execute(t, "version"))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LogConfig
		debug   bool
		want    zapcore.Level
		wantErr bool
	}{
		{name: "default", want: zapcore.InfoLevel},
		{name: "warn", cfg: types.LogConfig{Level: "warn"}, want: zapcore.WarnLevel},
		{name: "debug env wins", cfg: types.LogConfig{Level: "error"}, debug: true, want: zapcore.DebugLevel},
		{name: "development", cfg: types.LogConfig{Development: true}, want: zapcore.InfoLevel},
		{name: "invalid", cfg: types.LogConfig{Level: "loud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.cfg, tt.debug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}
