// Package upload publishes written report files as a named artifact bundle.
//
// Three destinations are supported:
//   - the GitHub Actions artifact service, used inside a workflow job
//   - an S3 bucket, for destinations of the form s3://bucket/prefix
//   - a local directory, for any other destination
//
// Every uploader receives the files together with the directory they are
// rooted at; files are stored under their path relative to that directory
// and files outside of it are rejected.
package upload
