// Package model defines the state of one run of the action.
//
// A Run is created from the configuration and filled in by the pipeline
// steps: the parsed stats, the report, the rendered files, the upload
// result and finally the step outputs.
//
// Design decision: the run state lives in its own package so that the
// pipeline steps and the command can share it without import cycles.
package model
