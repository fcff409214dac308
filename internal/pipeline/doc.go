// Package pipeline runs a bundle stats run as a sequence of steps: read the
// stats, validate them, build the report, render and write the report
// files, upload them, summarize, post the commit status, record the
// history and publish the step outputs.
//
// Design decision: every step works on a shared *model.Run and the
// pipeline stops at the first failing step. A failure anywhere marks the
// run failed; the only non-fatal problems (an unreadable baseline, a
// missing token) are reported as warnings by the steps themselves.
package pipeline
