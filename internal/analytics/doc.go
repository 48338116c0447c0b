// Package analytics computes the back-office dashboard metrics and report views.
//
// The Aggregator produces single-value KPIs and the Composer produces grouped and joined
// breakdowns. Both are pure functions of the Store they are given and of the "now" value
// supplied by the caller; neither reads the clock nor keeps state between calls.
//
// Rounding is half-to-even throughout. Ratios with a zero denominator resolve to 0, so an
// empty store yields zero-valued metrics and empty views rather than an error. Store errors
// are returned unchanged and no partial result is produced.
package analytics
