package client

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/stretchr/testify/require"
)

// Method is the closed set of HTTP methods the harness knows how to send.
type Method string

const (
	GET     Method = http.MethodGet
	POST    Method = http.MethodPost
	PUT     Method = http.MethodPut
	DELETE  Method = http.MethodDelete
	PATCH   Method = http.MethodPatch
	OPTIONS Method = http.MethodOptions
)

// Methods lists every supported method.
var Methods = []Method{GET, POST, PUT, DELETE, PATCH, OPTIONS}

func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, DELETE, PATCH, OPTIONS:
		return true
	}
	return false
}

const jsonContentType = "application/json; charset=utf-8"

// Response is the captured outcome of one request: status, headers, and the
// fully read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Failer is the subset of test state the request helpers need in order to
// abort hard on a transport-level failure. Both *testing.T and
// *framework.Context satisfy it.
type Failer = require.TestingT

func do(t Failer, c *http.Client, req *http.Request, headers http.Header) *Response {
	for name, values := range headers {
		for _, v := range values {
			req.Header.Set(name, v)
		}
	}
	resp, err := c.Do(req)
	require.NoError(t, err, "request %s %s failed at the transport level", req.Method, req.URL)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "could not read response body from %s", req.URL)
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
}

func newRequest(t Failer, method Method, rawURL string, body io.Reader) *http.Request {
	req, err := http.NewRequest(string(method), rawURL, body)
	require.NoError(t, err, "could not build %s request for %s", method, rawURL)
	if req.Body == nil {
		// A nil Body is fine on a real transport, but handler-backed fake
		// transports pass the request straight to server code, which is
		// entitled to assume Body is non-nil.
		req.Body = http.NoBody
	}
	return req
}

// Get issues a GET request and aborts the test on transport failure.
func Get(t Failer, c *http.Client, rawURL string, headers http.Header) *Response {
	return do(t, c, newRequest(t, GET, rawURL, nil), headers)
}

// Post sends a raw body as UTF-8 encoded JSON.
func Post(t Failer, c *http.Client, rawURL string, body []byte, headers http.Header) *Response {
	req := newRequest(t, POST, rawURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", jsonContentType)
	return do(t, c, req, headers)
}

// PostEmpty sends a POST with no body at all.
func PostEmpty(t Failer, c *http.Client, rawURL string, headers http.Header) *Response {
	return do(t, c, newRequest(t, POST, rawURL, nil), headers)
}

// PostForm submits form fields. If any field carries more than one value the
// form goes out as multipart/form-data, otherwise as a standard URL-encoded
// body. This mirrors how the deployment's own upload forms behave.
func PostForm(t Failer, c *http.Client, rawURL string, form url.Values, headers http.Header) *Response {
	for _, values := range form {
		if len(values) > 1 {
			return PostMultipart(t, c, rawURL, form, headers)
		}
	}
	req := newRequest(t, POST, rawURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, c, req, headers)
}

// PostMultipart submits form fields as multipart/form-data regardless of
// their shape.
func PostMultipart(t Failer, c *http.Client, rawURL string, form url.Values, headers http.Header) *Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range form {
		for _, v := range values {
			require.NoError(t, writeFormField(w, name, v), "could not encode multipart field %q", name)
		}
	}
	require.NoError(t, w.Close(), "could not finalize multipart body")
	req := newRequest(t, POST, rawURL, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(t, c, req, headers)
}

func writeFormField(w *multipart.Writer, name, value string) error {
	fw, err := w.CreateFormField(name)
	if err != nil {
		return err
	}
	_, err = fw.Write([]byte(value))
	return err
}

// Put sends a raw body as UTF-8 encoded JSON.
func Put(t Failer, c *http.Client, rawURL string, body []byte, headers http.Header) *Response {
	req := newRequest(t, PUT, rawURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", jsonContentType)
	return do(t, c, req, headers)
}

// Patch sends a raw body as UTF-8 encoded JSON.
func Patch(t Failer, c *http.Client, rawURL string, body []byte, headers http.Header) *Response {
	req := newRequest(t, PATCH, rawURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", jsonContentType)
	return do(t, c, req, headers)
}

// Delete sends a raw body as UTF-8 encoded JSON.
func Delete(t Failer, c *http.Client, rawURL string, body []byte, headers http.Header) *Response {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req := newRequest(t, DELETE, rawURL, reader)
	if len(body) > 0 {
		req.Header.Set("Content-Type", jsonContentType)
	}
	return do(t, c, req, headers)
}

// Options dispatches an OPTIONS request with no body.
func Options(t Failer, c *http.Client, rawURL string, headers http.Header) *Response {
	return do(t, c, newRequest(t, OPTIONS, rawURL, nil), headers)
}
