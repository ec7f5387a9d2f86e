package mutation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/talentflow/internal/id"
	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/responselog"
	"github.com/getmockd/talentflow/pkg/store"
)

const (
	// dateLayout is the calendar date format used by timeline events.
	dateLayout = "2006-01-02"

	fieldFromOrder = "fromOrder"
	fieldToOrder   = "toOrder"
)

// Config wires a Router to its collaborators.
type Config struct {
	Store     store.Store
	Responses responselog.Logger
	Logger    *slog.Logger
	// Now overrides the clock; used by tests.
	Now func() time.Time
	// NewID overrides id generation for notes and timeline events.
	// The default is a time-ordered UUIDv7.
	NewID func() string
}

// Router applies write operations to the store.
type Router struct {
	store     store.Store
	responses responselog.Logger
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
	schemas   *schemas
}

// New creates a Router.
func New(cfg Config) (*Router, error) {
	if cfg.Store == nil {
		return nil, errors.New("mutation: store is required")
	}
	if cfg.Responses == nil {
		return nil, errors.New("mutation: response log is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = newTimeOrderedID
	}
	s, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &Router{
		store:     cfg.Store,
		responses: cfg.Responses,
		log:       logging.Component(cfg.Logger, "mutation"),
		now:       cfg.Now,
		newID:     cfg.NewID,
		schemas:   s,
	}, nil
}

// CreateJob stores body as a new job and returns it unchanged.
func (r *Router) CreateJob(ctx context.Context, body []byte) (entity.Document, error) {
	return r.create(ctx, r.store.Jobs(), r.schemas.job, body)
}

// CreateCandidate stores body as a new candidate and returns it unchanged.
func (r *Router) CreateCandidate(ctx context.Context, body []byte) (entity.Document, error) {
	return r.create(ctx, r.store.Candidates(), r.schemas.candidate, body)
}

func (r *Router) create(ctx context.Context, c store.Collection, schema *bodySchema, body []byte) (entity.Document, error) {
	doc, err := schema.decode(body)
	if err != nil {
		return nil, err
	}
	if err := c.Add(ctx, doc); err != nil {
		return nil, r.storeError(c, doc, schema, err)
	}
	return doc, nil
}

func (r *Router) storeError(c store.Collection, doc entity.Document, schema *bodySchema, err error) error {
	switch {
	case errors.Is(err, store.ErrMissingKey):
		return &ValidationError{Message: schema.message, Field: c.KeyField()}
	case errors.Is(err, store.ErrAlreadyExists):
		key, _ := doc.String(c.KeyField())
		return &ConflictError{Resource: string(c.Kind()), ID: key}
	}
	return err
}

// UpdateJob merges body into the job and returns {id, ...body}.
func (r *Router) UpdateJob(ctx context.Context, id string, body []byte) (entity.Document, error) {
	patch, err := r.schemas.jobUpdate.decode(body)
	if err != nil {
		return nil, err
	}
	if err := r.update(ctx, r.store.Jobs(), id, patch); err != nil {
		return nil, err
	}
	return echo(id, patch), nil
}

// UpdateCandidate merges body into the candidate and returns {id, ...body}.
// A stage change is recorded as a timeline event in the same transaction as
// the update, so either both are stored or neither is.
func (r *Router) UpdateCandidate(ctx context.Context, id string, body []byte) (entity.Document, error) {
	patch, err := r.schemas.candidateUpdate.decode(body)
	if err != nil {
		return nil, err
	}

	err = r.store.Atomic(ctx, func(ctx context.Context, tx store.Store) error {
		candidates := tx.Candidates()
		before, err := candidates.Get(ctx, id)
		if err != nil {
			return r.lookupError(candidates, id, err)
		}
		if err := r.update(ctx, candidates, id, patch); err != nil {
			return err
		}
		if stage, changed := stageChange(before, patch); changed {
			return r.recordStage(ctx, tx, id, stage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return echo(id, patch), nil
}

func (r *Router) update(ctx context.Context, c store.Collection, id string, patch entity.Document) error {
	if err := c.Update(ctx, id, patch); err != nil {
		return r.lookupError(c, id, err)
	}
	return nil
}

func (r *Router) lookupError(c store.Collection, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: string(c.Kind()), ID: id}
	}
	return err
}

// stageChange reports the new stage when patch sets one that differs from
// the stored record.
func stageChange(before, patch entity.Document) (string, bool) {
	if _, ok := patch[entity.FieldStage]; !ok {
		return "", false
	}
	next, ok := patch.String(entity.FieldStage)
	if !ok {
		return "", false
	}
	prev, _ := before.String(entity.FieldStage)
	return next, next != prev
}

func (r *Router) recordStage(ctx context.Context, tx store.Store, candidateID, stage string) error {
	event, err := entity.ToDocument(entity.TimelineEvent{
		ID:          r.newID(),
		CandidateID: candidateID,
		Stage:       entity.Stage(stage),
		Date:        r.now().Format(dateLayout),
	})
	if err != nil {
		return err
	}
	if err := tx.Timeline().Add(ctx, event); err != nil {
		return fmt.Errorf("record stage change: %w", err)
	}
	r.log.Debug("stage change recorded", "candidateId", candidateID, "stage", stage)
	return nil
}

// echo builds {id, ...patch}; a patch id wins, as in an object spread.
func echo(id string, patch entity.Document) entity.Document {
	out := entity.Document{entity.FieldID: id}
	return out.Merge(patch)
}

// ReorderJobs moves the first job (in key order) whose order equals
// fromOrder to toOrder. Only that job changes; a missing job is not an
// error. The path id is not consulted.
func (r *Router) ReorderJobs(ctx context.Context, body []byte) (map[string]any, error) {
	req, err := r.schemas.reorder.decode(body)
	if err != nil {
		return nil, err
	}
	from, _ := req[fieldFromOrder].(float64)
	to := req[fieldToOrder]

	jobs := r.store.Jobs()
	all, err := jobs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reorder jobs: %w", err)
	}
	for _, job := range all {
		order, ok := job[entity.FieldOrder].(float64)
		if !ok || order != from {
			continue
		}
		moved := job.Clone()
		moved[entity.FieldOrder] = to
		if err := jobs.Put(ctx, moved); err != nil {
			return nil, fmt.Errorf("reorder jobs: %w", err)
		}
		r.log.Debug("job reordered", "id", job[entity.FieldID], "from", from, "to", to)
		break
	}
	return success(), nil
}

// UpsertAssessment replaces the job's assessment with body.sections.
// Other body fields are dropped.
func (r *Router) UpsertAssessment(ctx context.Context, jobID string, body []byte) (entity.Document, error) {
	req, err := r.schemas.assessment.decode(body)
	if err != nil {
		return nil, err
	}
	assessment := entity.Document{
		entity.FieldJobID:    jobID,
		entity.FieldSections: req[entity.FieldSections],
	}
	if err := r.store.Assessments().Put(ctx, assessment); err != nil {
		return nil, r.storeError(r.store.Assessments(), assessment, r.schemas.assessment, err)
	}
	return assessment, nil
}

// SubmitAssessment appends body, which may be any JSON value, to the job's
// response log.
func (r *Router) SubmitAssessment(ctx context.Context, jobID string, body []byte) (map[string]any, error) {
	if !json.Valid(body) {
		return nil, &ValidationError{Message: "Invalid submission data"}
	}
	entry, err := r.responses.Append(ctx, jobID, body)
	if err != nil {
		return nil, fmt.Errorf("submit assessment: %w", err)
	}
	r.log.Debug("assessment submitted", "jobId", jobID, "entry", entry.ID)
	return success(), nil
}

// AddNote appends a note to the candidate. The server assigns id,
// timestamp and the extracted @mentions; other body fields are kept.
func (r *Router) AddNote(ctx context.Context, candidateID string, body []byte) (entity.Document, error) {
	req, err := r.schemas.note.decode(body)
	if err != nil {
		return nil, err
	}
	content, _ := req.String("content")

	note := req.Clone()
	fields, err := entity.ToDocument(entity.Note{
		ID:          r.newID(),
		CandidateID: candidateID,
		Content:     content,
		Mentions:    entity.Mentions(content),
		Timestamp:   r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	note = note.Merge(fields)

	if err := r.store.Notes().Add(ctx, note); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

// newTimeOrderedID returns a UUIDv7, so records listed in key order come
// back in creation order.
func newTimeOrderedID() string {
	return id.TimeOrdered()
}

func success() map[string]any {
	return map[string]any{"success": true}
}
