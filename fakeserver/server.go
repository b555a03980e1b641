// Package fakeserver runs a scripted stand-in for an external service the
// deployment calls out to (robotoff, image recognition, and the like). It
// replays an ordered list of canned responses and writes every request it
// receives to disk so the test can inspect what the deployment sent.
package fakeserver

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/openfoodfacts/api-contract-tests/logging"
)

const listenerProbeTimeout = 10 * time.Second
const requestChannelSize = 20

// Server is one fake external service instance. Its listener, dump
// directory, and request channel live until Close is called; nothing is
// shared between instances.
type Server struct {
	baseURL  string
	dumpDir  string
	handlers []http.Handler
	fallback http.Handler
	server   *http.Server
	listener net.Listener
	requests chan CapturedRequest
	counter  int32
	logger   logging.Logger
}

// New starts a fake server on the given port (0 picks a free one). The
// canned responses are persisted to numbered files in dumpDir before the
// listener accepts anything, so the dump directory always shows the full
// script alongside the captured requests. The n-th incoming request is
// answered by the n-th canned response; requests beyond the script get a
// default 200 with a trivial JSON body.
func New(port int, dumpDir string, responses []CannedResponse, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}

	s := &Server{
		dumpDir:  dumpDir,
		fallback: httphelpers.HandlerWithJSONResponse(map[string]string{"status": "ok"}, nil),
		requests: make(chan CapturedRequest, requestChannelSize),
		logger:   logger,
	}
	for i, r := range responses {
		if err := writeResponseDump(dumpDir, i+1, r); err != nil {
			return nil, err
		}
		s.handlers = append(s.handlers, r.handler())
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("could not listen on port %d: %w", port, err)
	}
	s.listener = listener
	s.baseURL = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	s.server = &http.Server{Handler: http.HandlerFunc(s.serveHTTP)}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("fake server stopped: %s", err)
		}
	}()

	if err := s.awaitListener(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// URL returns the base URL the deployment should be pointed at.
func (s *Server) URL() string {
	return s.baseURL
}

func (s *Server) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method == "HEAD" {
		// used only to detect that our own listener is up; not part of the script
		w.WriteHeader(200)
		return
	}

	// the counter lives in the handle, not in the dump directory, so two
	// requests can never derive the same sequence number
	n := int(atomic.AddInt32(&s.counter, 1))

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			s.logger.Printf("could not read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	captured := captureRequest(req, body)
	if err := writeRequestDump(s.dumpDir, n, captured); err != nil {
		s.logger.Printf("could not persist request %d: %s", n, err)
	}
	select { // non-blocking push
	case s.requests <- captured:
	default:
		s.logger.Printf("request channel was full for %s", req.URL)
	}

	if n <= len(s.handlers) {
		s.handlers[n-1].ServeHTTP(w, req)
		return
	}
	s.fallback.ServeHTTP(w, req)
}

// AwaitRequest waits for the next request to arrive at the server,
// for tests that need to synchronize with the deployment's outbound calls.
func (s *Server) AwaitRequest(timeout time.Duration) (CapturedRequest, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case req := <-s.requests:
		return req, nil
	case <-deadline.C:
		return CapturedRequest{}, fmt.Errorf("timed out waiting for a request to %s", s.baseURL)
	}
}

// Close stops the listener. Captured request files stay on disk.
func (s *Server) Close() {
	_ = s.server.Close()
}

func (s *Server) awaitListener() error {
	deadline := time.NewTimer(listenerProbeTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("could not detect own listener at %s", s.baseURL)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(s.baseURL)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == 200 {
					return nil
				}
			}
		}
	}
}
