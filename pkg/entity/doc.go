// Package entity defines the record kinds served by the simulated hiring API.
//
// Records travel and persist as schemaless JSON documents (Document) because
// the API accepts any object shape and only checks it shallowly. The typed
// structs in this package are views over those documents, used by the seeder
// and by readers that want concrete fields.
//
// Relationships between kinds are by reference only: Candidate.JobID and
// Assessment.JobID point at a Job, TimelineEvent.CandidateID and
// Note.CandidateID point at a Candidate. None of these references are
// validated; readers must tolerate dangling keys.
package entity
