// Package actions implements the parts of the GitHub Actions runner
// protocol a step needs: workflow commands (::warning:: and friends),
// step outputs written to the GITHUB_OUTPUT file, and the job summary
// appended to GITHUB_STEP_SUMMARY.
//
// Paths and writers are passed in explicitly; Env collects them from the
// process environment once at startup.
package actions
