// Package seed populates an empty store with plausible demo data.
//
// Seeding is idempotent: if any job exists the store is left untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/store"
)

var jobTags = []string{"frontend", "backend", "fullstack", "design", "devops"}

// questionOptions are attached to every seeded question, whatever its type.
var questionOptions = []string{"Option A", "Option B", "Option C"}

// Counts sets how many records a first run creates.
type Counts struct {
	Jobs                int `json:"jobs" yaml:"jobs" toml:"jobs"`
	Candidates          int `json:"candidates" yaml:"candidates" toml:"candidates"`
	Assessments         int `json:"assessments" yaml:"assessments" toml:"assessments"`
	QuestionsPerSection int `json:"questionsPerSection" yaml:"questionsPerSection" toml:"questionsPerSection"`
}

// DefaultCounts returns the stock data set size.
func DefaultCounts() Counts {
	return Counts{Jobs: 25, Candidates: 1000, Assessments: 3, QuestionsPerSection: 10}
}

// Seeder fills an empty store.
type Seeder struct {
	Store    store.Store
	Fixtures FixtureSource
	Counts   Counts
	Logger   *slog.Logger
}

// Result reports what Seed did.
type Result struct {
	Skipped     bool          `json:"skipped"`
	Jobs        int           `json:"jobs"`
	Candidates  int           `json:"candidates"`
	Assessments int           `json:"assessments"`
	Duration    time.Duration `json:"duration"`
}

// Seed populates the store unless it already holds jobs. Jobs get order
// 1..N; candidates and assessments reference uniformly random jobs.
// Assessments are upserted, so two drawn for the same job leave one record.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	if s.Store == nil {
		return Result{}, errors.New("seed: store is required")
	}
	if s.Fixtures == nil {
		s.Fixtures = NewRandomFixtures(0)
	}
	if s.Counts == (Counts{}) {
		s.Counts = DefaultCounts()
	}
	log := logging.Component(s.Logger, "seed")

	n, err := s.Store.Jobs().Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		log.Debug("store already seeded", "jobs", n)
		return Result{Skipped: true}, nil
	}

	start := time.Now()
	log.Info("seeding database")

	jobs, err := s.jobs()
	if err != nil {
		return Result{}, err
	}
	if err := s.Store.Jobs().BulkAdd(ctx, jobs); err != nil {
		return Result{}, fmt.Errorf("seed jobs: %w", err)
	}

	candidates, err := s.candidates(jobs)
	if err != nil {
		return Result{}, err
	}
	if err := s.Store.Candidates().BulkAdd(ctx, candidates); err != nil {
		return Result{}, fmt.Errorf("seed candidates: %w", err)
	}

	assessments, err := s.assessments(jobs)
	if err != nil {
		return Result{}, err
	}
	for _, a := range assessments {
		if err := s.Store.Assessments().Put(ctx, a); err != nil {
			return Result{}, fmt.Errorf("seed assessments: %w", err)
		}
	}
	stored, err := s.Store.Assessments().Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}

	res := Result{
		Jobs:        len(jobs),
		Candidates:  len(candidates),
		Assessments: stored,
		Duration:    time.Since(start),
	}
	log.Info("database seeded",
		"jobs", res.Jobs,
		"candidates", res.Candidates,
		"assessments", res.Assessments,
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Seeder) jobs() ([]entity.Document, error) {
	f := s.Fixtures
	docs := make([]entity.Document, s.Counts.Jobs)
	for i := range docs {
		title := f.JobTitle()
		job := entity.Job{
			ID:     f.UUID(),
			Title:  title,
			Slug:   f.Slug(title),
			Status: entity.JobStatuses[f.Intn(len(entity.JobStatuses))],
			Tags:   s.tags(),
			Order:  i + 1,
		}
		doc, err := entity.ToDocument(job)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// tags draws 1 to 3 distinct tags, keeping their list order.
func (s *Seeder) tags() []string {
	want := 1 + s.Fixtures.Intn(3)
	pool := make([]string, len(jobTags))
	copy(pool, jobTags)
	// Partial Fisher-Yates over the pool.
	for i := 0; i < want; i++ {
		j := i + s.Fixtures.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	chosen := make(map[string]bool, want)
	for _, t := range pool[:want] {
		chosen[t] = true
	}
	out := make([]string, 0, want)
	for _, t := range jobTags {
		if chosen[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s *Seeder) candidates(jobs []entity.Document) ([]entity.Document, error) {
	f := s.Fixtures
	docs := make([]entity.Document, s.Counts.Candidates)
	for i := range docs {
		name := f.FullName()
		c := entity.Candidate{
			ID:    f.UUID(),
			Name:  name,
			Email: f.Email(name),
			Stage: entity.Stages[f.Intn(len(entity.Stages))],
			JobID: s.randomJobID(jobs),
		}
		doc, err := entity.ToDocument(c)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

func (s *Seeder) assessments(jobs []entity.Document) ([]entity.Document, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	f := s.Fixtures
	docs := make([]entity.Document, 0, s.Counts.Assessments)
	for range s.Counts.Assessments {
		questions := make([]entity.Question, s.Counts.QuestionsPerSection)
		for i := range questions {
			questions[i] = entity.Question{
				Type:     entity.QuestionTypes[f.Intn(len(entity.QuestionTypes))],
				Question: f.Sentence(),
				Options:  append([]string(nil), questionOptions...),
			}
		}
		a := entity.Assessment{
			JobID:    s.randomJobID(jobs),
			Sections: []entity.Section{{Title: f.Words(3), Questions: questions}},
		}
		doc, err := entity.ToDocument(a)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Seeder) randomJobID(jobs []entity.Document) string {
	if len(jobs) == 0 {
		return ""
	}
	id, _ := jobs[s.Fixtures.Intn(len(jobs))].String(entity.FieldID)
	return id
}
