package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogsNewestFirstWithLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)

	l.Info("DOCGEN", "first", map[string]interface{}{"n": 1})
	l.Error("DOCGEN", "second", nil)
	l.Info("SESSION", "third", nil)
	_ = l.Sync()

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "SESSION", all[0].Module)
	assert.NotEmpty(t, all[0].Id)
	assert.Equal(t, float64(1), all[2].Details["n"])

	errs, err := l.GetLogs("ERROR", 10, 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "second", errs[0].Message)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	empty, err := l.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetLogsMissingFile(t *testing.T) {
	l := &ZapLogger{logger: NewNopLogger().logger, filePath: filepath.Join(t.TempDir(), "absent.log")}
	entries, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
