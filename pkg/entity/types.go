package entity

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
)

// JobStatuses lists every valid job status.
var JobStatuses = []JobStatus{JobActive, JobArchived}

// Stage is a candidate's position in the hiring pipeline.
// Any stage may follow any other.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists every pipeline stage in pipeline order.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// QuestionType is the answer widget a question expects.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
)

// QuestionTypes lists the question types the seeder draws from.
var QuestionTypes = []QuestionType{QuestionSingleChoice, QuestionMultiChoice, QuestionShortText, QuestionLongText}

// Job is an open (or archived) position. Order drives drag-reorder in the UI
// and is not required to be unique.
type Job struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Status JobStatus `json:"status"`
	Tags   []string  `json:"tags"`
	Order  int       `json:"order"`
}

// Candidate is an applicant for a Job.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Stage Stage  `json:"stage"`
	JobID string `json:"jobId"`
}

// Question is a single assessment prompt.
type Question struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
}

// Section groups questions under a title.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Assessment is the questionnaire attached to a job. JobID is its primary key.
type Assessment struct {
	JobID    string    `json:"jobId"`
	Sections []Section `json:"sections"`
}

// TimelineEvent records a candidate entering a stage. Date is YYYY-MM-DD.
type TimelineEvent struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidateId"`
	Stage       Stage  `json:"stage"`
	Date        string `json:"date"`
}

// Note is free text attached to a candidate. Content may embed @mentions.
type Note struct {
	ID          string   `json:"id"`
	CandidateID string   `json:"candidateId"`
	Content     string   `json:"content"`
	Mentions    []string `json:"mentions"`
	Timestamp   string   `json:"timestamp"`
}
