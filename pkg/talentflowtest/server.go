package talentflowtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/getmockd/talentflow/pkg/dispatch"
	"github.com/getmockd/talentflow/pkg/mutation"
	"github.com/getmockd/talentflow/pkg/responselog"
	"github.com/getmockd/talentflow/pkg/seed"
	"github.com/getmockd/talentflow/pkg/store"
	"github.com/getmockd/talentflow/pkg/store/sqlite"
)

// Server is a running talentflow backend for tests.
type Server struct {
	t          testing.TB
	store      *sqlite.Store
	responses  *responselog.SQLiteStore
	dispatcher *dispatch.Dispatcher
	httpSrv    *httptest.Server
	seeded     seed.Result

	mu       sync.Mutex
	requests []RequestLog
}

// New starts a Server. It is stopped automatically when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()
	dir := t.TempDir()

	st, err := sqlite.Open(ctx, sqlite.Config{Path: filepath.Join(dir, "talentflow.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	rl, err := responselog.Open(ctx, responselog.Config{Path: filepath.Join(dir, "responses.db")})
	if err != nil {
		t.Fatalf("open response log: %v", err)
	}
	t.Cleanup(func() { _ = rl.Close() })

	router, err := mutation.New(mutation.Config{Store: st, Responses: rl, Now: o.now})
	if err != nil {
		t.Fatalf("mutation router: %v", err)
	}
	d, err := dispatch.New(dispatch.Config{
		Store:        st,
		Router:       router,
		Policy:       o.policy,
		TimelineMode: o.timelineMode,
	})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	s := &Server{t: t, store: st, responses: rl, dispatcher: d}
	if o.seed {
		seeder := &seed.Seeder{Store: st, Fixtures: seed.NewRandomFixtures(o.fixtureSeed), Counts: o.counts}
		if s.seeded, err = seeder.Seed(ctx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	s.httpSrv = httptest.NewServer(s.record(d))
	t.Cleanup(s.httpSrv.Close)
	return s
}

// record logs every request and the status it was answered with.
func (s *Server) record(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		s.mu.Lock()
		s.requests = append(s.requests, RequestLog{
			Method:      r.Method,
			Path:        r.URL.Path,
			QueryString: r.URL.RawQuery,
			Body:        string(body),
			Status:      rec.status,
		})
		s.mu.Unlock()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// URL returns the base URL of the server.
func (s *Server) URL() string { return s.httpSrv.URL }

// Client returns an HTTP client for the server.
func (s *Server) Client() *http.Client { return s.httpSrv.Client() }

// Store returns the backing entity store.
func (s *Server) Store() store.Store { return s.store }

// Responses returns the assessment submission log.
func (s *Server) Responses() responselog.Store { return s.responses }

// Seeded reports what the initial seeding created.
func (s *Server) Seeded() seed.Result { return s.seeded }

// Do sends a request and returns the response. body may be nil, a string,
// a []byte, or any value to encode as JSON. Transport failures fail the
// test.
func (s *Server) Do(method, path string, body any) *Response {
	s.t.Helper()

	var r io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(v)
	case []byte:
		r = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			s.t.Fatalf("encode request body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL()+path, r)
	if err != nil {
		s.t.Fatalf("build request: %v", err)
	}
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client().Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		s.t.Fatalf("read response: %v", err)
	}
	return &Response{Status: resp.StatusCode, Body: data}
}

// Requests returns the requests served so far, oldest first.
func (s *Server) Requests() []RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestLog(nil), s.requests...)
}

// Reset clears the request log.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// AssertCalled asserts that an endpoint was called at least once.
func (s *Server) AssertCalled(t testing.TB, method, path string) {
	t.Helper()
	if s.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (s *Server) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()
	if count := s.countCalls(method, path); count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times", method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (s *Server) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()
	if count := s.countCalls(method, path); count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times", method, path, count)
	}
}

func (s *Server) countCalls(method, path string) int {
	count := 0
	for _, r := range s.Requests() {
		if r.Method == method && matchesPath(r.Path, path) {
			count++
		}
	}
	return count
}

// matchesPath checks if a request path matches the expected path pattern.
// Segments written {name} or :name match any value.
func matchesPath(actual, expected string) bool {
	if actual == expected {
		return true
	}
	actualParts := strings.Split(actual, "/")
	expectedParts := strings.Split(expected, "/")
	if len(actualParts) != len(expectedParts) {
		return false
	}
	for i, part := range expectedParts {
		if isParam(part) && actualParts[i] != "" {
			continue
		}
		if part != actualParts[i] {
			return false
		}
	}
	return true
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, ":") || (strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"))
}

func (s *Server) String() string {
	return fmt.Sprintf("talentflowtest.Server(%s)", s.URL())
}
