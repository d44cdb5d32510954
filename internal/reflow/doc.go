// Package reflow drives the formatting pipeline over a document's code
// blocks.
//
// One pass runs the stages in a fixed order against a single width
// measurement:
//
//	restore all ─► probe columns ─► page factor ─► per block:
//	                                                 compress indent
//	                                                 break long lines
//	                                                 snapshot + render
//
// Previously-mutated blocks restore from their snapshots before the
// pass, so every pass reflects only the current width and passes never
// compound. The indent compression factor comes from the first eligible
// block and applies page-wide. Each block formats independently behind
// a recover boundary; a panic in one block is counted, logged with the
// block index, and never aborts the pass.
//
// Passes are single-threaded. Callers serialize Pass invocations; the
// viewer does this by running every pass on its event-loop goroutine.
package reflow
