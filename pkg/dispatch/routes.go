package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"

	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/query"
	"github.com/getmockd/talentflow/pkg/store"
)

type handlerFunc func(ctx context.Context, params map[string]string, req *Request) (any, error)

// route is one entry of the route table.
type route struct {
	method   string
	template string
	status   int
	handle   handlerFunc
	api      apiDoc

	pattern *regexp.Regexp
	params  []string
}

var paramPattern = regexp.MustCompile(`:(\w+)`)

func newRoute(method, template string, status int, handle handlerFunc, api apiDoc) *route {
	r := &route{method: method, template: template, status: status, handle: handle, api: api}

	// Convert path params like :jobId to regex groups
	for _, m := range paramPattern.FindAllStringSubmatch(template, -1) {
		r.params = append(r.params, m[1])
	}
	r.pattern = regexp.MustCompile("^" + paramPattern.ReplaceAllString(regexp.QuoteMeta(template), `([^/]+)`) + "$")
	return r
}

// matchPath reports whether the escaped path fits the template and
// extracts the named parameters, unescaped. A parameter with an invalid
// escape does not match.
func (r *route) matchPath(path string) (map[string]string, bool) {
	m := r.pattern.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(r.params))
	for i, name := range r.params {
		v, err := url.PathUnescape(m[i+1])
		if err != nil {
			return nil, false
		}
		params[name] = v
	}
	return params, true
}

// match returns the first route, in table order, for method and path.
func (d *Dispatcher) match(method, path string) (*route, map[string]string) {
	for _, r := range d.routes {
		if r.method != method {
			continue
		}
		if params, ok := r.matchPath(path); ok {
			return r, params
		}
	}
	return nil, nil
}

func (d *Dispatcher) buildRoutes() []*route {
	return []*route{
		newRoute(http.MethodGet, "/jobs", http.StatusOK, d.listJobs, docListJobs),
		newRoute(http.MethodPost, "/jobs", http.StatusCreated, d.createJob, docCreateJob),
		newRoute(http.MethodPatch, "/jobs/:id", http.StatusOK, d.updateJob, docUpdateJob),
		newRoute(http.MethodPatch, "/jobs/:id/reorder", http.StatusOK, d.reorderJobs, docReorderJobs),
		newRoute(http.MethodGet, "/candidates", http.StatusOK, d.listCandidates, docListCandidates),
		newRoute(http.MethodPost, "/candidates", http.StatusCreated, d.createCandidate, docCreateCandidate),
		newRoute(http.MethodPatch, "/candidates/:id", http.StatusOK, d.updateCandidate, docUpdateCandidate),
		newRoute(http.MethodGet, "/candidates/:id/timeline", http.StatusOK, d.timeline, docTimeline),
		newRoute(http.MethodGet, "/candidates/:id/notes", http.StatusOK, d.listNotes, docListNotes),
		newRoute(http.MethodPost, "/candidates/:id/notes", http.StatusCreated, d.addNote, docAddNote),
		newRoute(http.MethodGet, "/assessments/:jobId", http.StatusOK, d.getAssessment, docGetAssessment),
		newRoute(http.MethodPut, "/assessments/:jobId", http.StatusOK, d.upsertAssessment, docUpsertAssessment),
		newRoute(http.MethodPost, "/assessments/:jobId/submit", http.StatusOK, d.submitAssessment, docSubmitAssessment),
	}
}

// Jobs

func (d *Dispatcher) listJobs(ctx context.Context, _ map[string]string, req *Request) (any, error) {
	all, err := d.store.Jobs().All(ctx)
	if err != nil {
		return nil, err
	}
	return d.jobs.Run(all, query.ParseOptions(req.Query, d.jobQuery)), nil
}

func (d *Dispatcher) createJob(ctx context.Context, _ map[string]string, req *Request) (any, error) {
	return d.router.CreateJob(ctx, req.Body)
}

func (d *Dispatcher) updateJob(ctx context.Context, p map[string]string, req *Request) (any, error) {
	return d.router.UpdateJob(ctx, p["id"], req.Body)
}

func (d *Dispatcher) reorderJobs(ctx context.Context, _ map[string]string, req *Request) (any, error) {
	return d.router.ReorderJobs(ctx, req.Body)
}

// Candidates

func (d *Dispatcher) listCandidates(ctx context.Context, _ map[string]string, req *Request) (any, error) {
	all, err := d.store.Candidates().All(ctx)
	if err != nil {
		return nil, err
	}
	page := d.candidates.Run(all, query.ParseOptions(req.Query, d.candQuery))
	if req.Query.Get("expand") == "job" {
		page.Data = query.ExpandJobs(ctx, d.store.Jobs(), page.Data)
	}
	return page, nil
}

func (d *Dispatcher) createCandidate(ctx context.Context, _ map[string]string, req *Request) (any, error) {
	return d.router.CreateCandidate(ctx, req.Body)
}

func (d *Dispatcher) updateCandidate(ctx context.Context, p map[string]string, req *Request) (any, error) {
	return d.router.UpdateCandidate(ctx, p["id"], req.Body)
}

type timelineBody struct {
	CandidateID string `json:"candidateId"`
	Timeline    any    `json:"timeline"`
}

// demoTimeline is served for every candidate in TimelineDemo mode.
var demoTimeline = []map[string]string{
	{"stage": string(entity.StageApplied), "date": "2023-01-01"},
	{"stage": string(entity.StageScreen), "date": "2023-01-05"},
}

func (d *Dispatcher) timeline(ctx context.Context, p map[string]string, _ *Request) (any, error) {
	id := p["id"]
	if d.timelineMode == TimelineDemo {
		return timelineBody{CandidateID: id, Timeline: demoTimeline}, nil
	}
	events, err := d.store.Timeline().ListBy(ctx, entity.FieldCandidateID, id)
	if err != nil {
		return nil, err
	}
	return timelineBody{CandidateID: id, Timeline: events}, nil
}

type notesBody struct {
	CandidateID string            `json:"candidateId"`
	Notes       []entity.Document `json:"notes"`
}

func (d *Dispatcher) listNotes(ctx context.Context, p map[string]string, _ *Request) (any, error) {
	notes, err := d.store.Notes().ListBy(ctx, entity.FieldCandidateID, p["id"])
	if err != nil {
		return nil, err
	}
	return notesBody{CandidateID: p["id"], Notes: notes}, nil
}

func (d *Dispatcher) addNote(ctx context.Context, p map[string]string, req *Request) (any, error) {
	return d.router.AddNote(ctx, p["id"], req.Body)
}

// Assessments

func (d *Dispatcher) getAssessment(ctx context.Context, p map[string]string, _ *Request) (any, error) {
	a, err := d.store.Assessments().Get(ctx, p["jobId"])
	if errors.Is(err, store.ErrNotFound) {
		return entity.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (d *Dispatcher) upsertAssessment(ctx context.Context, p map[string]string, req *Request) (any, error) {
	return d.router.UpsertAssessment(ctx, p["jobId"], req.Body)
}

func (d *Dispatcher) submitAssessment(ctx context.Context, p map[string]string, req *Request) (any, error) {
	return d.router.SubmitAssessment(ctx, p["jobId"], req.Body)
}
