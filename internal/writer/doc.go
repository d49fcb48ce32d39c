// Package writer implements the batch writer that stores accepted bars.
//
// The writer drains the pipeline's buffer, accumulates rows, and inserts
// them with pgx batches. Inserts are append-only; a bar already stored for
// the same (ts_event, rtype, instrument_id, symbol) is skipped and counted as a
// conflict, so re-running a load over the same files is harmless.
package writer
