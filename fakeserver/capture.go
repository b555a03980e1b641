package fakeserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

// CannedResponse is one scripted reply. Responses are assigned to incoming
// requests strictly by arrival order.
type CannedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body"`
}

func (r CannedResponse) handler() http.Handler {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	headers := make(http.Header)
	for name, value := range r.Headers {
		headers.Set(name, value)
	}
	return httphelpers.HandlerWithResponse(status, headers, []byte(r.Body))
}

// CapturedRequest is the persisted form of one request the fake server
// received.
type CapturedRequest struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   string            `json:"query,omitempty"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

func captureRequest(req *http.Request, body []byte) CapturedRequest {
	headers := make(map[string]string, len(req.Header))
	for name, values := range req.Header {
		headers[name] = strings.Join(values, ", ")
	}
	return CapturedRequest{
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.RawQuery,
		Headers: headers,
		Body:    string(body),
	}
}

func writeRequestDump(dir string, n int, req CapturedRequest) error {
	return writeDump(filepath.Join(dir, fmt.Sprintf("request-%d.json", n)), req)
}

func writeResponseDump(dir string, n int, resp CannedResponse) error {
	return writeDump(filepath.Join(dir, fmt.Sprintf("response-%d.json", n)), resp)
}

func writeDump(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create dump directory: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode dump for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
