package logger

import (
	"bytes"
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeplot.log")

	log, err := NewFileLogger(path, "[test]")
	require.NoError(t, err)

	log.Info("hello %s", "world")
	log.Warn("watch out")
	log.Error("it broke")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[test] hello world")
	assert.Contains(t, content, "WARN: watch out")
	assert.Contains(t, content, "ERROR: it broke")
}

func TestFileLoggerCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "pipeplot.log")

	log, err := NewFileLogger(path, "[test]")
	require.NoError(t, err)

	log.Info("first line")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileLoggerDebugGatedByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeplot.log")

	log, err := NewFileLogger(path, "[test]")
	require.NoError(t, err)

	t.Setenv("PIPEPLOT_DEBUG", "")
	os.Unsetenv("PIPEPLOT_DEBUG")
	log.Debug("hidden")

	t.Setenv("PIPEPLOT_DEBUG", "1")
	log.Debug("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	assert.NotEmpty(t, path)
	assert.Equal(t, "pipeplot.log", filepath.Base(path))
}

func TestEnvLoggerWritesMessages(t *testing.T) {
	var buf bytes.Buffer
	stdlog.SetOutput(&buf)
	defer stdlog.SetOutput(os.Stderr)

	log := NewEnvLogger("[registry]")
	log.Info("loaded %d patterns", 2)
	log.Warn("slow load")
	log.Error("save failed")

	content := buf.String()
	assert.Contains(t, content, "[registry] loaded 2 patterns")
	assert.Contains(t, content, "WARN: slow load")
	assert.Contains(t, content, "ERROR: save failed")
}

func TestEnvLoggerDebugGatedByEnv(t *testing.T) {
	var buf bytes.Buffer
	stdlog.SetOutput(&buf)
	defer stdlog.SetOutput(os.Stderr)

	log := NewEnvLogger("[registry]")

	t.Setenv("PIPEPLOT_DEBUG", "")
	os.Unsetenv("PIPEPLOT_DEBUG")
	log.Debug("hidden")

	t.Setenv("PIPEPLOT_DEBUG", "1")
	log.Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestNoopLoggerDiscards(t *testing.T) {
	log := Noop()

	// Must not panic regardless of arguments.
	log.Debug("a %d", 1)
	log.Info("b")
	log.Warn("c %s", "x")
	log.Error("d")
}

func TestBufferLoggerCaptures(t *testing.T) {
	log := NewBufferLogger()

	log.Info("count is %d", 3)
	log.Error("boom")

	require.Len(t, log.Messages, 2)
	assert.Equal(t, "count is 3", log.Messages[0].Message)
	assert.True(t, log.HasLevel("error"))
	assert.False(t, log.HasLevel("warn"))

	log.Clear()
	assert.Empty(t, log.Messages)
}
