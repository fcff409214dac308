// Package main provides the entry point for the bundle-stats action.
//
// bundlestats reads the webpack stats of a build, compares them with an
// optional baseline and publishes the bundle size as report files, an
// artifact, a commit status and step outputs.
//
// Usage:
//
//	bundlestats --webpack-stats-path dist/stats.json
//	bundlestats history --run-id "bundle-stats / pr-42"
//
// Inside a workflow the inputs are read from INPUT_* variables. See --help
// for all available options.
package main

// main is the entry point for bundlestats.
func main() {
	Execute()
}
