package testcases

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"

	"github.com/stretchr/testify/assert"

	"github.com/openfoodfacts/api-contract-tests/client"
	"github.com/openfoodfacts/api-contract-tests/framework"
)

// Runner executes case tables. All results flow into the framework.Context
// it is given; the runner itself holds no pass/fail state.
type Runner struct {
	// Client is the default HTTP client for cases that do not bring their own.
	Client *http.Client
	// ResultsDir is where the expected-result files live.
	ResultsDir string
	// UpdateResults rewrites the expected-result files from the actual
	// responses instead of failing on differences.
	UpdateResults bool
}

// Run executes every case as its own subtest. A failing case never stops
// the following ones.
func (r *Runner) Run(t *framework.Context, cases []Case) {
	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *framework.Context) {
			r.runCase(t, tc)
		})
	}
}

func (r *Runner) runCase(t *framework.Context, tc Case) {
	target := client.TestURL(tc.Subdomain, tc.Path)
	if tc.QueryString != "" {
		qs := tc.QueryString
		if qs[0] != '?' && qs[0] != '&' {
			qs = "?" + qs
		}
		target += qs
	}
	t.Debug("%s %s", tc.method(), target)

	headers := make(http.Header)
	if origin := originFor(target); origin != "" {
		headers.Set("Origin", origin)
	}
	for name, value := range tc.Headers {
		headers.Set(name, value)
	}

	c := tc.Client
	if c == nil {
		c = r.Client
	}

	var resp *client.Response
	switch tc.method() {
	case client.GET:
		resp = client.Get(t, c, target, headers)
	case client.POST:
		switch {
		case tc.Body != "":
			resp = client.Post(t, c, target, []byte(tc.Body), headers)
		case len(tc.Form) > 0:
			resp = client.PostForm(t, c, target, url.Values(tc.Form), headers)
		default:
			resp = client.PostEmpty(t, c, target, headers)
		}
	case client.PUT:
		resp = client.Put(t, c, target, []byte(tc.Body), headers)
	case client.DELETE:
		resp = client.Delete(t, c, target, []byte(tc.Body), headers)
	case client.PATCH:
		resp = client.Patch(t, c, target, []byte(tc.Body), headers)
	case client.OPTIONS:
		resp = client.Options(t, c, target, headers)
	default:
		t.Errorf("unsupported method %q", tc.Method)
		return
	}

	assert.Equal(t, tc.expectedStatus(), resp.StatusCode,
		"unexpected status code, body: %s", resp.Body)

	for name, want := range tc.ExpectedHeaders {
		if want.IsDefined() {
			assert.Equal(t, want.StringValue(), resp.Header.Get(name),
				"unexpected value for header %q", name)
		} else {
			assert.Empty(t, resp.Header.Get(name),
				"header %q should be absent", name)
		}
	}

	if r.checkBody(t, tc, resp) {
		r.checkPatterns(t, tc, resp.Body)
	}
}

// checkBody reports false only for a JSON parse failure, which skips the
// remaining checks for this case.
func (r *Runner) checkBody(t *framework.Context, tc Case, resp *client.Response) bool {
	switch tc.expectedType() {
	case TextResponse:
		r.compareWithExpected(t, tc.Name+".txt", resp.Body)
	case HTMLResponse:
		// no structural comparison for HTML pages
	default:
		var parsed interface{}
		if err := json.Unmarshal(resp.Body, &parsed); err != nil {
			t.Errorf("response body is not valid JSON: %s\nbody: %s", err, resp.Body)
			return false
		}
		normalizeVolatileFields(parsed)
		normalized, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			t.Errorf("could not re-encode normalized response: %s", err)
			return false
		}
		r.compareWithExpected(t, tc.Name+".json", normalized)
	}
	return true
}

func (r *Runner) checkPatterns(t *framework.Context, tc Case, body []byte) {
	if tc.MatchPattern != "" {
		if rx, err := regexp.Compile("(?i)" + tc.MatchPattern); err != nil {
			t.Errorf("invalid match pattern %q: %s", tc.MatchPattern, err)
		} else {
			assert.True(t, rx.Match(body),
				"body does not match %q, body: %s", tc.MatchPattern, body)
		}
	}
	if tc.NoMatchPattern != "" {
		if rx, err := regexp.Compile("(?i)" + tc.NoMatchPattern); err != nil {
			t.Errorf("invalid no-match pattern %q: %s", tc.NoMatchPattern, err)
		} else {
			assert.False(t, rx.Match(body),
				"body should not match %q, body: %s", tc.NoMatchPattern, body)
		}
	}
}

func originFor(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
