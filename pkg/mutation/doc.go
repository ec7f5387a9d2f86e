// Package mutation implements the write side of the simulated API.
//
// Each operation validates the request body shape, applies the change to
// the entity store and returns the response body. Validation is shallow:
// only the fields an operation depends on are checked, and any other
// fields a caller sends are stored as given.
//
// Errors carry an HTTP status (see StatusOf):
//
//	*ValidationError  400  body has the wrong shape
//	*NotFoundError    404  update of a record that does not exist
//	*ConflictError    409  create with a key already in use
//
// Anything else is an internal failure and maps to 500.
package mutation
