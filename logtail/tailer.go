// Package logtail reads new lines appended to a server log while a test
// runs, so the test can assert on log side effects that never show up in an
// HTTP response. There is no rotation or re-open handling: the tailer is
// scoped to one test against one live log file.
package logtail

import (
	"fmt"
	"io"
	"os"
)

// Tailer is a read cursor into a growing log file. Each Read returns only
// what was appended since the previous Read (or since New).
type Tailer struct {
	file *os.File
}

// New opens the log file positioned at its current end, so that only lines
// written after this point are ever returned.
func New(path string) (*Tailer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not seek to end of %s: %w", path, err)
	}
	return &Tailer{file: f}, nil
}

// Read returns everything appended since the last call, or an empty string
// when there is nothing new. It never blocks waiting for more data.
func (t *Tailer) Read() (string, error) {
	data, err := io.ReadAll(t.file)
	if err != nil {
		return "", fmt.Errorf("could not read from %s: %w", t.file.Name(), err)
	}
	return string(data), nil
}

func (t *Tailer) Close() error {
	return t.file.Close()
}
