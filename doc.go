// Package tilewave synthesizes a 2D colored-tile grid that is statistically
// and locally consistent with a small exemplar image. It is a variant of
// Wave Function Collapse that replaces the usual minimum-entropy heuristic
// with a combination of local pattern constraints, a long-range statistical
// influence field learned from the exemplar, a density-correction term that
// drives global color frequencies toward the exemplar's ratios, and a
// feasibility score that prefers highly constrained positions.
//
// The package is the generation engine only: a single-threaded, sequential
// state machine driven one iteration at a time by Executor.RunIteration.
// Preprocessing the exemplar into tile statistics lives in the sibling
// exemplar package; image decoding, CLI wiring and visualization are left to
// callers entirely.
package tilewave
