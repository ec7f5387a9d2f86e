package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/httputil"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/mutation"
	"github.com/getmockd/talentflow/pkg/query"
	"github.com/getmockd/talentflow/pkg/store"
)

// Timeline modes.
const (
	// TimelineDemo serves a fixed two-event timeline for every candidate.
	TimelineDemo = "demo"
	// TimelineRecorded serves the stage changes recorded by the router.
	TimelineRecorded = "recorded"
)

// DefaultMaxBodyBytes caps request bodies read by ServeHTTP.
const DefaultMaxBodyBytes int64 = 1 << 20

// Request is a simulated API request.
type Request struct {
	Method string
	// Path is the escaped request path; path parameters are unescaped
	// after matching, so "/candidates/a%2Fb" addresses candidate "a/b".
	Path  string
	Query url.Values
	Body  []byte
}

// Response is the envelope returned for a handled request.
type Response struct {
	Status int
	Body   any
}

// QueryConfig sets list endpoint paging.
type QueryConfig struct {
	JobsPageSize       int
	CandidatesPageSize int
	MaxPageSize        int
}

// Config wires a Dispatcher.
type Config struct {
	Store  store.Store
	Router *mutation.Router
	// Policy injects latency and faults. Nil means chaos.None.
	Policy chaos.Policy
	Query  QueryConfig
	// TimelineMode is TimelineDemo (default) or TimelineRecorded.
	TimelineMode string
	// Fallback serves requests no route matches. Nil responds 404.
	Fallback     http.Handler
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Dispatcher matches requests against the route table.
type Dispatcher struct {
	store        store.Store
	router       *mutation.Router
	policy       chaos.Policy
	jobQuery     query.Spec
	candQuery    query.Spec
	jobs         *query.Engine
	candidates   *query.Engine
	timelineMode string
	fallback     http.Handler
	maxBodyBytes int64
	log          *slog.Logger
	routes       []*route
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, errors.New("dispatch: store is required")
	}
	if cfg.Router == nil {
		return nil, errors.New("dispatch: mutation router is required")
	}
	if cfg.Policy == nil {
		cfg.Policy = chaos.None
	}
	switch cfg.TimelineMode {
	case "":
		cfg.TimelineMode = TimelineDemo
	case TimelineDemo, TimelineRecorded:
	default:
		return nil, fmt.Errorf("dispatch: unknown timeline mode %q", cfg.TimelineMode)
	}
	if cfg.Query.JobsPageSize <= 0 {
		cfg.Query.JobsPageSize = 10
	}
	if cfg.Query.CandidatesPageSize <= 0 {
		cfg.Query.CandidatesPageSize = 20
	}
	if cfg.Fallback == nil {
		cfg.Fallback = http.HandlerFunc(notFound)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	d := &Dispatcher{
		store:  cfg.Store,
		router: cfg.Router,
		policy: cfg.Policy,
		jobQuery: query.Spec{
			EnumParams:      []string{"status"},
			DefaultPageSize: cfg.Query.JobsPageSize,
			MaxPageSize:     cfg.Query.MaxPageSize,
		},
		candQuery: query.Spec{
			EnumParams:      []string{"stage"},
			DefaultPageSize: cfg.Query.CandidatesPageSize,
			MaxPageSize:     cfg.Query.MaxPageSize,
		},
		jobs:         query.MustEngine("$.title"),
		candidates:   query.MustEngine("$.name", "$.email"),
		timelineMode: cfg.TimelineMode,
		fallback:     cfg.Fallback,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          logging.Component(cfg.Logger, "dispatch"),
	}
	d.routes = d.buildRoutes()
	return d, nil
}

// Dispatch handles req. It reports false when no route matches; the caller
// should then pass the request through.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Response, bool) {
	rt, params := d.match(req.Method, req.Path)
	if rt == nil {
		return nil, false
	}
	if req.Query == nil {
		r := *req
		r.Query = url.Values{}
		req = &r
	}

	start := time.Now()
	resp := d.run(ctx, rt, params, req)
	d.log.Debug("request dispatched",
		"method", req.Method,
		"path", req.Path,
		"route", rt.template,
		"status", resp.Status,
		"duration", time.Since(start),
	)
	return resp, true
}

func (d *Dispatcher) run(ctx context.Context, rt *route, params map[string]string, req *Request) *Response {
	creq := chaos.Request{Method: req.Method, Path: req.Path}
	if err := d.policy.Delay(ctx, creq); err != nil {
		return errorResponse(http.StatusRequestTimeout, "request canceled")
	}
	if creq.IsWrite() {
		if fault := d.policy.Fault(creq); fault != nil {
			return errorResponse(fault.StatusCode(), fault.Error())
		}
	}

	body, err := rt.handle(ctx, params, req)
	if err != nil {
		status := mutation.StatusOf(err)
		if status >= http.StatusInternalServerError {
			d.log.Error("request failed", "method", req.Method, "path", req.Path, "error", err)
		}
		return errorResponse(status, err.Error())
	}
	return &Response{Status: rt.status, Body: body}
}

func errorResponse(status int, message string) *Response {
	return &Response{Status: status, Body: httputil.ErrorBody{Error: message}}
}

// ServeHTTP adapts the dispatcher to net/http.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()
	if rt, _ := d.match(r.Method, path); rt == nil {
		d.fallback.ServeHTTP(w, r)
		return
	}

	body, err := httputil.ReadBody(w, r, d.maxBodyBytes)
	if err != nil {
		httputil.WriteError(w, mutation.StatusOf(err), err.Error())
		return
	}

	resp, _ := d.Dispatch(r.Context(), &Request{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Body:   body,
	})
	httputil.WriteJSON(w, resp.Status, resp.Body)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
}
