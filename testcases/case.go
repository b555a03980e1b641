// Package testcases runs declarative tables of request/expected-response
// pairs against the test deployment, comparing each response to a stored
// expected-result file and rewriting the file when running in update mode.
package testcases

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/openfoodfacts/api-contract-tests/client"
)

// ResponseType selects how the response body is checked.
type ResponseType string

const (
	// JSONResponse parses the body and compares it structurally against the
	// stored expected result. This is the default.
	JSONResponse ResponseType = "json"
	// TextResponse compares the body verbatim against the stored expected result.
	TextResponse ResponseType = "text"
	// HTMLResponse skips structural comparison of the body.
	HTMLResponse ResponseType = "html"
)

// Case describes one request and the response expected for it. A Case is
// constructed once (in Go code or loaded from YAML) and consumed read-only.
type Case struct {
	// Name identifies the case in results and names its expected-result file.
	Name string `yaml:"name"`
	// Method defaults to GET.
	Method client.Method `yaml:"method,omitempty"`
	// Subdomain defaults to "world".
	Subdomain string `yaml:"subdomain,omitempty"`
	Path      string `yaml:"path"`
	// QueryString is appended to the constructed URL as-is (a leading "?" is
	// added when missing).
	QueryString string `yaml:"query_string,omitempty"`
	// Form fields for POST requests; ignored when Body is set. A field with
	// more than one value switches the whole form to multipart encoding.
	Form FormValues `yaml:"form,omitempty"`
	// Body is sent as UTF-8 encoded JSON for POST, PUT, DELETE and PATCH.
	Body string `yaml:"body,omitempty"`
	// Headers are merged over the computed ones, so a case can override the
	// Origin header the runner derives from the URL.
	Headers map[string]string `yaml:"headers,omitempty"`
	// Client, when set, replaces the runner's client for this case (for
	// instance to use a session that is logged in as a different user).
	Client *http.Client `yaml:"-"`

	// ExpectedStatus defaults to 200.
	ExpectedStatus int `yaml:"expected_status,omitempty"`
	// ExpectedHeaders maps header names to expected values; an undefined
	// value asserts that the header is absent.
	ExpectedHeaders HeaderExpectations `yaml:"expected_headers,omitempty"`
	// ExpectedType defaults to JSONResponse.
	ExpectedType ResponseType `yaml:"expected_type,omitempty"`
	// MatchPattern, if set, must match the raw body, case-insensitively.
	MatchPattern string `yaml:"match,omitempty"`
	// NoMatchPattern, if set, must not match the raw body, case-insensitively.
	NoMatchPattern string `yaml:"no_match,omitempty"`
}

func (c Case) method() client.Method {
	if c.Method == "" {
		return client.GET
	}
	return c.Method
}

func (c Case) expectedStatus() int {
	if c.ExpectedStatus == 0 {
		return http.StatusOK
	}
	return c.ExpectedStatus
}

func (c Case) expectedType() ResponseType {
	if c.ExpectedType == "" {
		return JSONResponse
	}
	return c.ExpectedType
}

// FormValues holds form fields. In YAML a field can be written either as a
// scalar or as a sequence of values.
type FormValues map[string][]string

func (f *FormValues) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := make(FormValues, len(raw))
	for name, node := range raw {
		if node.Kind == yaml.SequenceNode {
			var values []string
			if err := node.Decode(&values); err != nil {
				return fmt.Errorf("form field %q: %w", name, err)
			}
			out[name] = values
		} else {
			var single string
			if err := node.Decode(&single); err != nil {
				return fmt.Errorf("form field %q: %w", name, err)
			}
			out[name] = []string{single}
		}
	}
	*f = out
	return nil
}

// HeaderExpectations maps header names to expected values. A YAML null value
// (or a zero ldvalue.OptionalString in Go code) asserts header absence.
type HeaderExpectations map[string]ldvalue.OptionalString

func (h *HeaderExpectations) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]*string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := make(HeaderExpectations, len(raw))
	for name, v := range raw {
		if v == nil {
			out[name] = ldvalue.OptionalString{}
		} else {
			out[name] = ldvalue.NewOptionalString(*v)
		}
	}
	*h = out
	return nil
}

// LoadCases reads a YAML list of cases, as consumed by the runner binary.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read case table: %w", err)
	}
	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("malformed case table %s: %w", path, err)
	}
	for i, c := range cases {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d in %s has no name", i, path)
		}
		if c.Method != "" && !c.Method.Valid() {
			return nil, fmt.Errorf("case %q has unsupported method %q", c.Name, c.Method)
		}
	}
	return cases, nil
}
