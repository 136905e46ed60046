// Package pipeline orchestrates the analysis run: a fixed list of named
// stages executed once each, in order, synchronously.
//
// # Stages
//
// The stages mirror the analytical workflow:
//
//	load → inspect → clean → distribution → datetime → recode →
//	categorical → boxplot → summary → hypothesis → export
//
// The Runner wraps each stage with structured logs, a trace span, and a
// duration metric; the first failing stage aborts the run. The Pipeline
// accumulates a RunSummary that is written as a JSON artifact at the end
// of the run.
package pipeline
