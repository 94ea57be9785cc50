// Package pipeline provides a streaming pipeline for processing records.
//
// A pipeline is a graph of stages connected by channels. A root step produces the
// elements, filter steps keep or drop them, a splitter fans them out to predicate
// branches and sinks consume them. Every stage runs in its own goroutine, so a stage
// starts working as soon as the first element reaches it.
//
// Ordering is preserved by any stage running with a concurrency of 1, which is the
// default. Stages with a higher concurrency process elements in parallel and may
// reorder them.
//
// The pipeline stops on the first error returned by any stage. Run cancels the
// remaining stages and returns that error wrapped with the name of the stage that
// produced it.
//
// Pipeline options (see the model package) observe every stage through hooks. The
// measure and drawer subpackages provide options to count elements, time stages and
// render the pipeline graph.
package pipeline
