// Package internal groups the engine's private building blocks.
//
//   - audit: async event dispatch and sinks
//   - flows: login, issue, refresh and validate state machines
//   - metrics: lock-free counters and the latency histogram
//   - rate: Redis fixed-window login and refresh throttles
package internal
