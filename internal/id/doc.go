// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across talentflow. All
// identifiers are RFC 9562 UUIDs in canonical string form:
//
//   - New: random (v4) ids for records whose order does not matter
//   - TimeOrdered: v7 ids; sorting them as strings sorts by creation time,
//     which the store relies on to list notes and timeline events in order
//   - FromReader: v4 ids drawn from a caller-supplied source, for
//     reproducible fixtures
package id
