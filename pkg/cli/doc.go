// Package cli provides the talentflow command-line interface.
//
// Commands:
//   - serve: open the store, seed it and serve the simulated API over HTTP
//   - seed: populate an empty store and exit
//   - call: dispatch one simulated request in-process and print the envelope
//   - openapi: print the OpenAPI description of the route table
//   - config: show the effective configuration and where each value came from
//   - chaos profiles: list the built-in latency/fault profiles
//   - version: show build information
//
// Every command reads the layered configuration described in package config.
// Persistent flags (--config, --db, --log-level, --json) override it.
package cli
