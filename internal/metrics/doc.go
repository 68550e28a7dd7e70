// Package metrics provides lock-free counters and a latency histogram for
// token issuance and validation.
//
// Counters sit in cache-line-padded uint64 slots and are incremented with
// [sync/atomic.AddUint64]. The histogram uses 8 fixed buckets (5ms up to
// +Inf). The write path does not allocate.
//
// Export (Prometheus, OTel) lives in metrics/export and reads [Snapshot]
// values. This package performs no I/O and imports no sibling package.
package metrics
