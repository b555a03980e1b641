// Package client builds HTTP requests against a local test deployment of the
// product database server. It wraps a cookie-jar http.Client and knows the
// URL layout of the deployment; it deliberately contains no retry or pooling
// logic, since each test owns its client for the duration of one test run.
package client

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// TestDomain is the domain the test deployment answers on. Every language
// subdomain of it (world, world-fr, ...) resolves to the same server.
const TestDomain = "openfoodfacts.localhost"

// DefaultSubdomain is used when a test does not ask for a specific language.
const DefaultSubdomain = "world"

const defaultRequestTimeout = time.Minute

// NewTestClient returns an HTTP client with a fresh cookie store, so that
// each test starts without any session state from earlier tests.
func NewTestClient() *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New never fails with nil options; guard anyway
		panic(fmt.Sprintf("could not create cookie jar: %s", err))
	}
	return &http.Client{
		Jar:     jar,
		Timeout: defaultRequestTimeout,
	}
}

// BaseURL returns the scheme and host for a subdomain of the test deployment.
// An empty subdomain means DefaultSubdomain.
func BaseURL(subdomain string) string {
	if subdomain == "" {
		subdomain = DefaultSubdomain
	}
	return fmt.Sprintf("http://%s.%s", subdomain, TestDomain)
}

// TestURL builds the full URL for a path on the test deployment. Paths that
// are not CGI scripts or API routes are routed through the display script,
// the same way the production front end does:
//
//	TestURL("world-fr", "/product/35242200055")
//	    == "http://world-fr.openfoodfacts.localhost/cgi/display.pl?/product/35242200055"
//	TestURL("", "/cgi/login.pl")
//	    == "http://world.openfoodfacts.localhost/cgi/login.pl"
func TestURL(subdomain, path string) string {
	prefix := ""
	if !strings.HasPrefix(path, "/cgi/") && !strings.HasPrefix(path, "/api/") {
		prefix = "/cgi/display.pl?"
	}
	return BaseURL(subdomain) + prefix + path
}
