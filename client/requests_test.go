package client

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(lastContentType *string, lastBody *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		*lastContentType = req.Header.Get("Content-Type")
		*lastBody = string(data)
		_, _ = w.Write([]byte(`{}`))
	})
}

func TestAllMethodsAreValid(t *testing.T) {
	for _, m := range Methods {
		assert.True(t, m.Valid(), "method %s", m)
	}
	assert.False(t, Method("TRACE").Valid())
}

func TestPostSendsBodyAsUTF8JSON(t *testing.T) {
	var contentType, body string
	c := httphelpers.ClientFromHandler(echoHandler(&contentType, &body))

	resp := Post(t, c, TestURL("", "/api/v3/product/123"), []byte(`{"a":1}`), nil)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", contentType)
	assert.Equal(t, `{"a":1}`, body)
}

func TestPostFormUsesURLEncodingForSingleValues(t *testing.T) {
	var contentType, body string
	c := httphelpers.ClientFromHandler(echoHandler(&contentType, &body))

	PostForm(t, c, TestURL("", "/cgi/product_jqm2.pl"),
		url.Values{"code": {"123"}}, nil)

	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "code=123", body)
}

func TestPostFormSwitchesToMultipartForListValues(t *testing.T) {
	var contentType, body string
	c := httphelpers.ClientFromHandler(echoHandler(&contentType, &body))

	PostForm(t, c, TestURL("", "/cgi/product_jqm2.pl"),
		url.Values{"tags": {"a", "b"}}, nil)

	assert.Contains(t, contentType, "multipart/form-data")
	assert.Contains(t, body, `name="tags"`)
}

func TestExtraHeadersAreSent(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = req.Header.Get("Accept-Language")
		_, _ = w.Write([]byte(`{}`))
	})
	c := httphelpers.ClientFromHandler(handler)

	headers := make(http.Header)
	headers.Set("Accept-Language", "fr")
	Get(t, c, TestURL("world-fr", "/api/v2/search"), headers)

	assert.Equal(t, "fr", seen)
}

func TestOptionsSendsNoBody(t *testing.T) {
	var method string
	var bodyLen int
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		data, _ := io.ReadAll(req.Body)
		bodyLen = len(data)
		w.WriteHeader(204)
	})
	c := httphelpers.ClientFromHandler(handler)

	resp := Options(t, c, TestURL("", "/api/v2/product/123"), nil)

	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "OPTIONS", method)
	assert.Zero(t, bodyLen)
}

// abortRecorder lets us observe the hard-abort path without killing the
// real test.
type abortRecorder struct {
	errors  []string
	aborted bool
}

func (a *abortRecorder) Errorf(format string, args ...interface{}) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *abortRecorder) FailNow() {
	a.aborted = true
	panic(a)
}

func TestTransportFailureAbortsHard(t *testing.T) {
	recorder := &abortRecorder{}
	c := &http.Client{Transport: failingTransport{}}

	func() {
		defer func() {
			require.Equal(t, recorder, recover(), "expected FailNow to unwind")
		}()
		Get(recorder, c, TestURL("", "/cgi/login.pl"), nil)
	}()

	assert.True(t, recorder.aborted)
	require.NotEmpty(t, recorder.errors)
	assert.Contains(t, recorder.errors[0], "transport level")
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("connection refused")
}
