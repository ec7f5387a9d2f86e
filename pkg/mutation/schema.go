package mutation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/talentflow/pkg/entity"
)

const (
	objectSchema = `{"type": "object"}`

	reorderSchema = `{
  "type": "object",
  "required": ["fromOrder", "toOrder"],
  "properties": {
    "fromOrder": {"type": "number"},
    "toOrder": {"type": "number"}
  }
}`

	assessmentSchema = `{
  "type": "object",
  "required": ["sections"],
  "properties": {
    "sections": {"type": "array"}
  }
}`

	noteSchema = `{
  "type": "object",
  "required": ["content"],
  "properties": {
    "content": {"type": "string"}
  }
}`
)

// bodySchema checks the shape of a request body and reports failures with
// a fixed client-facing message.
type bodySchema struct {
	schema  *jsonschema.Schema
	message string
}

func compileSchema(name, source, message string) (*bodySchema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &bodySchema{schema: schema, message: message}, nil
}

// decode parses body and validates it, returning the JSON object.
func (s *bodySchema) decode(body []byte) (entity.Document, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &ValidationError{Message: s.message}
	}
	if err := s.schema.Validate(v); err != nil {
		verr := &ValidationError{Message: s.message}
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			verr.Field = firstField(ve)
		}
		return nil, verr
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: s.message}
	}
	return entity.Document(obj), nil
}

// firstField returns the first failing property named by a validation error.
func firstField(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	path := strings.TrimPrefix(err.InstanceLocation, "/")
	if path != "" {
		return strings.ReplaceAll(path, "/", ".")
	}
	// "required" failures point at the parent; the message names the field.
	if i := strings.Index(err.Message, "missing properties: "); i >= 0 {
		return strings.Trim(strings.SplitN(err.Message[i+len("missing properties: "):], ",", 2)[0], `"' `)
	}
	return ""
}

type schemas struct {
	job, jobUpdate             *bodySchema
	candidate, candidateUpdate *bodySchema
	reorder                    *bodySchema
	assessment                 *bodySchema
	note                       *bodySchema
}

func compileSchemas() (*schemas, error) {
	s := &schemas{}
	defs := []struct {
		dst     **bodySchema
		name    string
		source  string
		message string
	}{
		{&s.job, "job.json", objectSchema, "Invalid job data"},
		{&s.jobUpdate, "job-update.json", objectSchema, "Invalid job update data"},
		{&s.candidate, "candidate.json", objectSchema, "Invalid candidate data"},
		{&s.candidateUpdate, "candidate-update.json", objectSchema, "Invalid candidate update data"},
		{&s.reorder, "reorder.json", reorderSchema, "Invalid reorder data"},
		{&s.assessment, "assessment.json", assessmentSchema, "Invalid assessment data"},
		{&s.note, "note.json", noteSchema, "Invalid note data"},
	}
	for _, d := range defs {
		compiled, err := compileSchema(d.name, d.source, d.message)
		if err != nil {
			return nil, err
		}
		*d.dst = compiled
	}
	return s, nil
}
