package logtail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailerReturnsOnlyLinesWrittenAfterStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0644))

	tailer, err := New(path)
	require.NoError(t, err)
	defer tailer.Close()

	out, err := tailer.Read()
	require.NoError(t, err)
	assert.Equal(t, "", out, "nothing was appended yet")

	appendToFile(t, path, "first new line\n")
	out, err = tailer.Read()
	require.NoError(t, err)
	assert.Equal(t, "first new line\n", out)
}

func TestTailerIsIncrementalAcrossReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	tailer, err := New(path)
	require.NoError(t, err)
	defer tailer.Close()

	appendToFile(t, path, "one\n")
	out, err := tailer.Read()
	require.NoError(t, err)
	assert.Equal(t, "one\n", out)

	appendToFile(t, path, "two\nthree\n")
	out, err = tailer.Read()
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", out)

	out, err = tailer.Read()
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestTailerFailsOnMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.log"))
	assert.Error(t, err)
}

func appendToFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(data)
	require.NoError(t, err)
}
