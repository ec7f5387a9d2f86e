// Package talentflowtest runs a complete talentflow backend inside Go tests.
//
// A Server wires a SQLite store in t.TempDir(), the mutation router, the
// dispatcher and an httptest server. Chaos is off unless a policy is given,
// and fixtures are seeded from a fixed seed so runs are reproducible.
//
// # Basic Usage
//
//	func TestBoard(t *testing.T) {
//	    srv := talentflowtest.New(t)
//
//	    resp := srv.Do("GET", "/jobs?status=active", nil)
//	    resp.AssertStatus(t, 200)
//	    resp.AssertJSONField(t, "$.total", float64(12))
//
//	    srv.Do("PATCH", "/candidates/"+id, map[string]string{"stage": "tech"}).
//	        AssertStatus(t, 200)
//
//	    srv.AssertCalledTimes(t, "PATCH", "/candidates/{id}", 1)
//	}
//
// Responses expose JSONPath lookups (ohler55/ojg syntax) for field
// assertions. Requests served are recorded for call assertions.
package talentflowtest
