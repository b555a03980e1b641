package client

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Readiness defaults; overridable through WaitOptions.
const (
	DefaultReadinessAttempts = 60
	DefaultReadinessInterval = 2 * time.Second
)

// WaitOptions bounds a readiness probe.
type WaitOptions struct {
	Attempts int
	Interval time.Duration
	Output   io.Writer
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Attempts == 0 {
		o.Attempts = DefaultReadinessAttempts
	}
	if o.Interval == 0 {
		o.Interval = DefaultReadinessInterval
	}
	if o.Output == nil {
		o.Output = io.Discard
	}
	return o
}

// WaitForServer polls the deployment's front page until it answers with a
// 200, or the attempt budget runs out. Exhaustion is a hard failure for the
// whole run: nothing can be asserted against a server that never came up.
func WaitForServer(rawURL string, opts WaitOptions) error {
	opts = opts.withDefaults()
	fmt.Fprintf(opts.Output, "Waiting for server at %s", rawURL)

	var lastErr error
	for i := 0; i < opts.Attempts; i++ {
		fmt.Fprintf(opts.Output, ".")
		resp, err := http.DefaultClient.Get(rawURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Fprintln(opts.Output)
				return nil
			}
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		time.Sleep(opts.Interval)
	}
	fmt.Fprintln(opts.Output)
	return fmt.Errorf("server at %s never became ready after %d attempts, last result: %w",
		rawURL, opts.Attempts, lastErr)
}

// WaitForFile polls for the existence of a file, typically a static asset
// that the deployment's build step produces last.
func WaitForFile(path string, opts WaitOptions) error {
	opts = opts.withDefaults()
	for i := 0; i < opts.Attempts; i++ {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(opts.Interval)
	}
	return fmt.Errorf("file %s never appeared after %d attempts", path, opts.Attempts)
}
