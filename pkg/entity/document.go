package entity

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Field names shared by the store, query engine and router.
const (
	FieldID          = "id"
	FieldJobID       = "jobId"
	FieldCandidateID = "candidateId"
	FieldStatus      = "status"
	FieldStage       = "stage"
	FieldOrder       = "order"
	FieldSections    = "sections"
)

// Document is a stored record in its JSON object form.
type Document map[string]any

// ParseDocument decodes a JSON object. It returns ok=false when data is not
// valid JSON or decodes to anything other than an object.
func ParseDocument(data []byte) (Document, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Document(obj), true
}

// ToDocument converts a typed record to its document form.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	doc, ok := ParseDocument(data)
	if !ok {
		return nil, fmt.Errorf("record %T is not a JSON object", v)
	}
	return doc, nil
}

// Decode fills a typed view from the document. Fields with unexpected types
// produce an error; callers serving raw documents never need this.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	return maps.Clone(d)
}

// String returns the field rendered as a string. Numbers are rendered in
// canonical decimal form so {"id": 7} and {"id": "7"} address the same key.
// The second result is false when the field is absent, null or not a scalar.
func (d Document) String(field string) (string, bool) {
	return ScalarString(d[field])
}

// Int returns the field as an integer when it holds a whole JSON number.
func (d Document) Int(field string) (int, bool) {
	switch n := d[field].(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// Merge copies every patch field onto a copy of d. The result is a pure
// shallow merge: fields absent from patch keep their values.
func (d Document) Merge(patch Document) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	maps.Copy(out, patch)
	return out
}

// ScalarString renders JSON scalars as strings.
func ScalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	case json.Number:
		return s.String(), true
	}
	return "", false
}
