// Package metrics provides Prometheus metrics for monitoring a load run.
//
// Key metrics:
//   - Records processed, by outcome (accepted or rejection reason)
//   - Rows inserted, conflicting and failed in the writer
//   - Writer flush latency
//   - Buffer depth between pipeline and writer
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics
