// Package pipeline filters vendor bar records down to the front-month
// contract and hands the accepted bars to the writer.
//
// Records are validated independently, so the pipeline fans lines out to a
// fixed pool of workers. Output order is not preserved.
package pipeline
