// Package build runs one build pass of the site.
//
// A pass is a fixed sequence of stages (see StageName) executed strictly in
// order against a snapshot of the source tree. The first failing stage aborts
// the pass; output written by earlier stages is left in place and replaced by
// the next successful pass, which always starts by clearing the output
// directory. Context cancellation is honored between stages only.
package build
