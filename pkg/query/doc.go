// Package query implements the read side of the simulated API: search,
// enum filtering and page slicing over a snapshot of one collection.
//
// Filtering is applied to the full collection before pagination, so
// Page.Total always counts every match.
package query
