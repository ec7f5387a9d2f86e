package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/query"
)

// apiDoc describes a route for the OpenAPI document.
type apiDoc struct {
	operationID string
	summary     string
	tag         string
	query       []string // names from queryParams
	request     string   // component schema name, "" for no body
	response    string   // component schema name
	errors      []int
}

var (
	docListJobs = apiDoc{
		operationID: "listJobs", summary: "List jobs", tag: "jobs",
		query: []string{"search", "status", "page", "pageSize"}, response: "JobPage",
	}
	docCreateJob = apiDoc{
		operationID: "createJob", summary: "Create a job", tag: "jobs",
		request: "Job", response: "Job", errors: []int{400, 409, 500},
	}
	docUpdateJob = apiDoc{
		operationID: "updateJob", summary: "Partially update a job", tag: "jobs",
		request: "Patch", response: "Patch", errors: []int{400, 404, 500},
	}
	docReorderJobs = apiDoc{
		operationID: "reorderJobs", summary: "Move the job at fromOrder to toOrder", tag: "jobs",
		request: "Reorder", response: "Success", errors: []int{400, 500},
	}
	docListCandidates = apiDoc{
		operationID: "listCandidates", summary: "List candidates", tag: "candidates",
		query: []string{"search", "stage", "page", "pageSize", "expand"}, response: "CandidatePage",
	}
	docCreateCandidate = apiDoc{
		operationID: "createCandidate", summary: "Create a candidate", tag: "candidates",
		request: "Candidate", response: "Candidate", errors: []int{400, 409, 500},
	}
	docUpdateCandidate = apiDoc{
		operationID: "updateCandidate", summary: "Partially update a candidate", tag: "candidates",
		request: "Patch", response: "Patch", errors: []int{400, 404, 500},
	}
	docTimeline = apiDoc{
		operationID: "getCandidateTimeline", summary: "Stage history of a candidate", tag: "candidates",
		response: "Timeline",
	}
	docListNotes = apiDoc{
		operationID: "listCandidateNotes", summary: "Notes about a candidate", tag: "candidates",
		response: "Notes",
	}
	docAddNote = apiDoc{
		operationID: "addCandidateNote", summary: "Add a note with @mentions", tag: "candidates",
		request: "NoteInput", response: "Note", errors: []int{400, 500},
	}
	docGetAssessment = apiDoc{
		operationID: "getAssessment", summary: "Assessment for a job, or {} if none", tag: "assessments",
		response: "Assessment",
	}
	docUpsertAssessment = apiDoc{
		operationID: "putAssessment", summary: "Replace the assessment for a job", tag: "assessments",
		request: "AssessmentInput", response: "Assessment", errors: []int{400, 500},
	}
	docSubmitAssessment = apiDoc{
		operationID: "submitAssessment", summary: "Record a candidate's responses", tag: "assessments",
		request: "Submission", response: "Success", errors: []int{400, 500},
	}
)

func enumSchema[T ~string](values []T) *openapi3.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return openapi3.NewStringSchema().WithEnum(enum...)
}

func queryParams() map[string]*openapi3.Parameter {
	return map[string]*openapi3.Parameter{
		"status":   openapi3.NewQueryParameter("status").WithSchema(enumSchema(entity.JobStatuses)),
		"stage":    openapi3.NewQueryParameter("stage").WithSchema(enumSchema(entity.Stages)),
		"page":     openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema().WithMin(1)),
		"pageSize": openapi3.NewQueryParameter("pageSize").WithSchema(openapi3.NewIntegerSchema().WithMin(1)),
		"expand": openapi3.NewQueryParameter("expand").
			WithDescription("Embed the referenced job in each candidate").
			WithSchema(openapi3.NewStringSchema().WithEnum("job")),
	}
}

func componentSchemas() openapi3.Schemas {
	str := openapi3.NewStringSchema
	question := openapi3.NewObjectSchema().
		WithProperty("type", enumSchema(entity.QuestionTypes)).
		WithProperty("question", str()).
		WithProperty("options", openapi3.NewArraySchema().WithItems(str()))
	section := openapi3.NewObjectSchema().
		WithProperty("title", str()).
		WithProperty("questions", openapi3.NewArraySchema().WithItems(question))
	job := openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("title", str()).
		WithProperty("slug", str()).
		WithProperty("status", enumSchema(entity.JobStatuses)).
		WithProperty("tags", openapi3.NewArraySchema().WithItems(str())).
		WithProperty("order", openapi3.NewIntegerSchema())
	job.Required = []string{"id"}
	candidate := openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("name", str()).
		WithProperty("email", str()).
		WithProperty("stage", enumSchema(entity.Stages)).
		WithProperty("jobId", str())
	candidate.Required = []string{"id"}
	assessment := openapi3.NewObjectSchema().
		WithProperty("jobId", str()).
		WithProperty("sections", openapi3.NewArraySchema().WithItems(section))
	event := openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("candidateId", str()).
		WithProperty("stage", enumSchema(entity.Stages)).
		WithProperty("date", str().WithFormat("date"))
	note := openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("candidateId", str()).
		WithProperty("content", str()).
		WithProperty("mentions", openapi3.NewArraySchema().WithItems(str())).
		WithProperty("timestamp", openapi3.NewDateTimeSchema())
	noteInput := openapi3.NewObjectSchema().WithProperty("content", str())
	noteInput.Required = []string{"content"}
	reorder := openapi3.NewObjectSchema().
		WithProperty("fromOrder", openapi3.NewFloat64Schema()).
		WithProperty("toOrder", openapi3.NewFloat64Schema())
	reorder.Required = []string{"fromOrder", "toOrder"}
	assessmentInput := openapi3.NewObjectSchema().
		WithProperty("sections", openapi3.NewArraySchema().WithItems(section))
	assessmentInput.Required = []string{"sections"}
	page := func(item *openapi3.Schema) *openapi3.Schema {
		return openapi3.NewObjectSchema().
			WithProperty("data", openapi3.NewArraySchema().WithItems(item)).
			WithProperty("total", openapi3.NewIntegerSchema())
	}
	errBody := openapi3.NewObjectSchema().WithProperty("error", str())
	errBody.Required = []string{"error"}

	schemas := map[string]*openapi3.Schema{
		"Job":             job,
		"Candidate":       candidate,
		"Assessment":      assessment,
		"AssessmentInput": assessmentInput,
		"TimelineEvent":   event,
		"Note":            note,
		"NoteInput":       noteInput,
		"Reorder":         reorder,
		"Patch":           openapi3.NewObjectSchema(),
		"Submission":      {Description: "Any JSON value"},
		"Success":         openapi3.NewObjectSchema().WithProperty("success", openapi3.NewBoolSchema()),
		"Error":           errBody,
		"JobPage":         page(job),
		"CandidatePage":   page(candidate),
		"Timeline": openapi3.NewObjectSchema().
			WithProperty("candidateId", str()).
			WithProperty("timeline", openapi3.NewArraySchema().WithItems(event)),
		"Notes": openapi3.NewObjectSchema().
			WithProperty("candidateId", str()).
			WithProperty("notes", openapi3.NewArraySchema().WithItems(note)),
	}
	out := make(openapi3.Schemas, len(schemas))
	for name, s := range schemas {
		out[name] = openapi3.NewSchemaRef("", s)
	}
	return out
}

// OpenAPI describes the route table as an OpenAPI 3 document.
func (d *Dispatcher) OpenAPI(version string) (*openapi3.T, error) {
	schemas := componentSchemas()
	params := queryParams()
	search := map[string]*openapi3.Parameter{
		"/jobs":       searchParam(d.jobs),
		"/candidates": searchParam(d.candidates),
	}
	ref := func(name string) *openapi3.SchemaRef {
		return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: schemas[name].Value}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "talentflow",
			Description: "Simulated hiring backend. Every request is delayed; writes may fail with 500.",
			Version:     version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}

	for _, rt := range d.routes {
		path := openAPIPath(rt.template)
		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}

		op := openapi3.NewOperation()
		op.OperationID = rt.api.operationID
		op.Summary = rt.api.summary
		op.Tags = []string{rt.api.tag}
		for _, name := range rt.params {
			op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
		}
		for _, name := range rt.api.query {
			if name == "search" {
				op.AddParameter(search[rt.template])
				continue
			}
			op.AddParameter(params[name])
		}
		if rt.api.request != "" {
			op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithContent(openapi3.NewContentWithJSONSchemaRef(ref(rt.api.request)))}
		}

		responses := []openapi3.NewResponsesOption{
			openapi3.WithStatus(rt.status, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription(http.StatusText(rt.status)).
				WithContent(openapi3.NewContentWithJSONSchemaRef(ref(rt.api.response)))}),
		}
		for _, code := range rt.api.errors {
			responses = append(responses, openapi3.WithStatus(code, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription(http.StatusText(code)).
				WithContent(openapi3.NewContentWithJSONSchemaRef(ref("Error")))}))
		}
		op.Responses = openapi3.NewResponses(responses...)

		item.SetOperation(rt.method, op)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	return doc, nil
}

// searchParam documents the fields a list route searches.
func searchParam(e *query.Engine) *openapi3.Parameter {
	return openapi3.NewQueryParameter("search").
		WithDescription("Case-insensitive substring match on " + strings.Join(e.SearchFields(), ", ")).
		WithSchema(openapi3.NewStringSchema())
}

// openAPIPath rewrites :name segments as {name}.
func openAPIPath(template string) string {
	return paramPattern.ReplaceAllString(template, "{$1}")
}
