// Package model defines shared data types used across the bar loader.
//
// All types mirror the bars table created by the database package.
//
// Conventions:
//   - Prices: int64 nano-units (price × 10^9), the vendor's fixed-point scale
//   - Timestamps: time.Time in UTC; TsDisplay carries the display-zone rendering
//   - IDs: uuid.UUID for load runs
package model
