package query

import (
	"context"

	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/store"
)

// JoinJob looks up the job a candidate references. Dangling or missing
// jobId values are expected (nothing enforces referential integrity), so a
// failed lookup reports false instead of an error.
func JoinJob(ctx context.Context, jobs store.Collection, candidate entity.Document) (entity.Document, bool) {
	jobID, ok := candidate.String(entity.FieldJobID)
	if !ok || jobID == "" {
		return nil, false
	}
	job, err := jobs.Get(ctx, jobID)
	if err != nil {
		return nil, false
	}
	return job, true
}

// ExpandJobs returns copies of candidates with the referenced job embedded
// under "job". Candidates whose job cannot be found are returned unchanged.
func ExpandJobs(ctx context.Context, jobs store.Collection, candidates []entity.Document) []entity.Document {
	out := make([]entity.Document, len(candidates))
	cache := make(map[string]entity.Document)
	for i, c := range candidates {
		out[i] = c
		jobID, _ := c.String(entity.FieldJobID)
		job, seen := cache[jobID]
		if !seen {
			job, _ = JoinJob(ctx, jobs, c)
			cache[jobID] = job
		}
		if job != nil {
			expanded := c.Clone()
			expanded["job"] = job
			out[i] = expanded
		}
	}
	return out
}
