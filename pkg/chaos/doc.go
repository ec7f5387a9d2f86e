// Package chaos simulates an unreliable network in front of the API.
//
// Every request waits a random latency drawn uniformly from [Min, Max].
// Write requests (anything but GET, HEAD and OPTIONS) then fail with the
// configured probability, short-circuiting the handler with an
// InjectedFault. Reads never fail.
//
// # Configuration
//
//	cfg := chaos.DefaultConfig() // 200ms-1200ms, 10% write failures
//	cfg.ExemptPaths = []string{"/assessments/**"}
//	injector, err := chaos.NewInjector(cfg)
//
// Exempt paths are doublestar globs; matching requests skip both latency
// and faults.
//
// Named profiles ("demo", "off", "slow", "flaky", "offline") bundle common
// settings:
//
//	cfg, ok := chaos.ApplyProfile("flaky")
//
// # Testing
//
// Fixed and None are deterministic policies for tests:
//
//	chaos.Fixed{Fail: true} // every write fails, no delay
//	chaos.None              // no delay, no faults
//
// # YAML Configuration Example
//
//	chaos:
//	  enabled: true
//	  latency:
//	    min: 200ms
//	    max: 1200ms
//	  errorRate:
//	    probability: 0.1
//	    statusCode: 500
//	    message: Simulated server error
//	  exemptPaths:
//	    - /candidates/*/timeline
package chaos
