// Package bundle turns filtered webpack stats into jobs, compares them in
// a report and derives the bundle-size insight and its summaries.
package bundle
