package cli_behavior_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockflow/blockflow/internal/cli"
	"github.com/blockflow/blockflow/internal/executor"
)

func TestNoArgsPrintsUsageAndExitsCleanly(t *testing.T) {
	var buf bytes.Buffer
	cfg, shouldExit, err := cli.Parse(nil, &buf)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, buf.String(), "Usage:")
}

func TestFlowFlagAndPositionalArg(t *testing.T) {
	var buf bytes.Buffer

	cfg, shouldExit, err := cli.Parse([]string{"-flow", "pipeline.bf"}, &buf)
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "pipeline.bf", cfg.FlowPath)

	cfg, shouldExit, err = cli.Parse([]string{"pipeline.bf"}, &buf)
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "pipeline.bf", cfg.FlowPath)
}

func TestDefaults(t *testing.T) {
	var buf bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-flow", "f.hcl"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, executor.DefaultWorkers, cfg.Workers)
	assert.Zero(t, cfg.MetricsPort)
}

func TestInvalidLogLevel(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := cli.Parse([]string{"-flow", "f.hcl", "-log-level", "loud"}, &buf)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestInvalidLogFormat(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := cli.Parse([]string{"-flow", "f.hcl", "-log-format", "xml"}, &buf)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestConfigFileFillsInUnsetFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
flow: from-file.bf
log_level: debug
workers: 3
metrics_port: 9102
`), 0644))

	var buf bytes.Buffer
	cfg, shouldExit, err := cli.Parse([]string{"-config", path}, &buf)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "from-file.bf", cfg.FlowPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 9102, cfg.MetricsPort)
}

func TestExplicitFlagsBeatConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
flow: from-file.bf
workers: 3
`), 0644))

	var buf bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-config", path, "-flow", "from-flag.bf", "-workers", "8"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.bf", cfg.FlowPath)
	assert.Equal(t, 8, cfg.Workers)
}

func TestMissingConfigFile(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := cli.Parse([]string{"-config", "/does/not/exist.yaml", "-flow", "f.hcl"}, &buf)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
