package actions

import "os"

// Environment variable names set by the Actions runner.
const (
	EnvActions      = "GITHUB_ACTIONS"
	EnvOutput       = "GITHUB_OUTPUT"
	EnvStepSummary  = "GITHUB_STEP_SUMMARY"
	EnvRunnerDebug  = "RUNNER_DEBUG"
	EnvRunnerTemp   = "RUNNER_TEMP"
	EnvRepository   = "GITHUB_REPOSITORY"
	EnvSHA          = "GITHUB_SHA"
	EnvAPIURL       = "GITHUB_API_URL"
	EnvRuntimeToken = "ACTIONS_RUNTIME_TOKEN"
	EnvResultsURL   = "ACTIONS_RESULTS_URL"
)

// Env is the subset of the runner environment used by a run.
type Env struct {
	// InActions is true when running inside a GitHub Actions job.
	InActions bool

	// Debug is true when step debug logging is enabled.
	Debug bool

	OutputPath      string
	StepSummaryPath string
	RunnerTemp      string
}

// LoadEnv reads the runner environment.
func LoadEnv() Env {
	return Env{
		InActions:       os.Getenv(EnvActions) == "true",
		Debug:           os.Getenv(EnvRunnerDebug) == "1",
		OutputPath:      os.Getenv(EnvOutput),
		StepSummaryPath: os.Getenv(EnvStepSummary),
		RunnerTemp:      os.Getenv(EnvRunnerTemp),
	}
}
