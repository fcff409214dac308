// Package artifact renders a bundle report into files and writes them to disk.
//
// CreateArtifacts produces the HTML page (go-echarts charts of the size
// metrics and the largest assets) and the JSON document (jobs and report).
// WriteAll persists the rendered buffers concurrently.
//
// Design decision: rendering and writing are separate steps so a failed
// write never leaves a half-rendered report in memory, and so rendering can
// be tested without touching the filesystem.
package artifact
