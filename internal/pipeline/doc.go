// Package pipeline orchestrates image discovery, per-file conversion, and
// batch summary reporting.
//
// Processing is strictly sequential: each file is read, decoded, encoded,
// written and measured before the next one starts. A per-file failure is
// logged and excluded from the totals; only a failure to enumerate the
// source directory aborts a run.
package pipeline
