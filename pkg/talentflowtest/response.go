package talentflowtest

import (
	"encoding/json"
	"testing"

	"github.com/ohler55/ojg/jp"
	"github.com/stretchr/testify/assert"
)

// RequestLog is a request served by a Server.
type RequestLog struct {
	Method      string
	Path        string
	QueryString string
	Body        string
	Status      int
}

// Response is a buffered HTTP response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into v, failing the test on error.
func (r *Response) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode response body %q: %v", r.Body, err)
	}
}

// JSON returns the decoded body, or nil if it is not JSON.
func (r *Response) JSON() any {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil
	}
	return v
}

// JSONField returns the first value matched by the JSONPath expression,
// e.g. "$.data[0].title". It returns nil when nothing matches.
func (r *Response) JSONField(expr string) any {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil
	}
	data := r.JSON()
	if data == nil {
		return nil
	}
	return x.First(data)
}

// JSONFields returns every value matched by the JSONPath expression.
func (r *Response) JSONFields(expr string) []any {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil
	}
	data := r.JSON()
	if data == nil {
		return nil
	}
	return x.Get(data)
}

// AssertStatus asserts the response status code.
func (r *Response) AssertStatus(t testing.TB, want int) *Response {
	t.Helper()
	assert.Equal(t, want, r.Status, "unexpected status, body: %s", r.Body)
	return r
}

// AssertJSONField asserts that the JSONPath expression matches expected.
// Numbers decode as float64.
func (r *Response) AssertJSONField(t testing.TB, expr string, expected any) *Response {
	t.Helper()
	if _, err := jp.ParseString(expr); err != nil {
		t.Errorf("invalid JSONPath %q: %v", expr, err)
		return r
	}
	assert.Equal(t, expected, r.JSONField(expr), "JSON field %s in %s", expr, r.Body)
	return r
}

// AssertError asserts an error envelope with the given status and message.
func (r *Response) AssertError(t testing.TB, status int, message string) *Response {
	t.Helper()
	r.AssertStatus(t, status)
	assert.JSONEq(t, `{"error":`+quote(message)+`}`, string(r.Body))
	return r
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
