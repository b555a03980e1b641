package fakeserver

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, responses []CannedResponse) (*Server, string) {
	t.Helper()
	dumpDir := t.TempDir()
	s, err := New(0, dumpDir, responses, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, dumpDir
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestCannedResponsesAreServedInRequestOrder(t *testing.T) {
	s, _ := startTestServer(t, []CannedResponse{
		{Status: 201, Body: `{"n":1}`},
		{Status: 404, Body: `{"n":2}`},
	})

	status, body := get(t, s.URL()+"/first")
	assert.Equal(t, 201, status)
	assert.Equal(t, `{"n":1}`, body)

	status, body = get(t, s.URL()+"/second")
	assert.Equal(t, 404, status)
	assert.Equal(t, `{"n":2}`, body)
}

func TestRequestsBeyondScriptGetDefaultResponse(t *testing.T) {
	s, _ := startTestServer(t, nil)

	status, body := get(t, s.URL()+"/anything")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestCannedResponseHeadersAreSent(t *testing.T) {
	s, _ := startTestServer(t, []CannedResponse{
		{Status: 200, Headers: map[string]string{"Content-Type": "application/xml"}, Body: "<ok/>"},
	})

	resp, err := http.Get(s.URL() + "/x")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
}

func TestCannedResponsesArePersistedUpFront(t *testing.T) {
	_, dumpDir := startTestServer(t, []CannedResponse{
		{Status: 200, Body: "a"},
		{Status: 500, Body: "b"},
	})

	for _, name := range []string{"response-1.json", "response-2.json"} {
		_, err := os.Stat(filepath.Join(dumpDir, name))
		assert.NoError(t, err, "expected %s to exist before any request arrives", name)
	}
}

func TestIncomingRequestsArePersistedSequentially(t *testing.T) {
	s, dumpDir := startTestServer(t, nil)

	resp, err := http.Post(s.URL()+"/v1/predict?batch=1", "application/json", strings.NewReader(`{"image":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	_, _ = get(t, s.URL()+"/v1/other")

	data, err := os.ReadFile(filepath.Join(dumpDir, "request-1.json"))
	require.NoError(t, err)
	var captured CapturedRequest
	require.NoError(t, json.Unmarshal(data, &captured))
	assert.Equal(t, "POST", captured.Method)
	assert.Equal(t, "/v1/predict", captured.Path)
	assert.Equal(t, "batch=1", captured.Query)
	assert.Equal(t, `{"image":"x"}`, captured.Body)

	_, err = os.Stat(filepath.Join(dumpDir, "request-2.json"))
	assert.NoError(t, err)
}

func TestAwaitRequestSeesArrivals(t *testing.T) {
	s, _ := startTestServer(t, nil)

	_, _ = get(t, s.URL()+"/ping")

	captured, err := s.AwaitRequest(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "/ping", captured.Path)

	_, err = s.AwaitRequest(50 * time.Millisecond)
	assert.Error(t, err, "no second request was made")
}
