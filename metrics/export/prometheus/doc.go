// Package prometheus renders goTokenAuth engine metrics in the Prometheus
// text exposition format.
//
// [Exporter.Handler] is meant to be mounted by the caller; nothing is
// registered in a global registry. Counters are named gotokenauth_*_total
// and the one histogram is gotokenauth_validate_latency_seconds.
package prometheus
