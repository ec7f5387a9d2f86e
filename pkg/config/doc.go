// Package config holds the talentflow runtime configuration.
//
// Settings are layered, each layer overriding the one before it:
//
//  1. Built-in defaults (Default)
//  2. A config file, by extension: .yaml/.yml, .toml or .json
//  3. A .env file in the working directory (never overrides the real environment)
//  4. TALENTFLOW_* environment variables
//  5. Command-line flags, applied by the CLI
//
// Every value records the layer it came from in Config.Sources, which the
// CLI prints with `talentflow config`.
//
// Example YAML:
//
//	server:
//	  addr: 127.0.0.1:4280
//	storage:
//	  path: ./talentflow.db
//	chaos:
//	  profile: flaky
//	timeline:
//	  mode: recorded
//	log:
//	  level: debug
package config
