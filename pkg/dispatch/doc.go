// Package dispatch routes simulated requests to the query engine and the
// mutation router.
//
// A Request names a method, a path, the query string and a raw body. The
// Dispatcher finds the first route whose method and path template match,
// consults the chaos policy (latency for every request, a possible
// injected fault for writes) and runs the handler. The result is a
// Response envelope: a status code and a JSON-encodable body. Errors are
// reported as {"error": message}.
//
// The route table is fixed:
//
//	GET    /jobs
//	POST   /jobs
//	PATCH  /jobs/:id
//	PATCH  /jobs/:id/reorder
//	GET    /candidates
//	POST   /candidates
//	PATCH  /candidates/:id
//	GET    /candidates/:id/timeline
//	GET    /candidates/:id/notes
//	POST   /candidates/:id/notes
//	GET    /assessments/:jobId
//	PUT    /assessments/:jobId
//	POST   /assessments/:jobId/submit
//
// Dispatcher also implements http.Handler; requests no route claims are
// passed to the Fallback handler.
package dispatch
