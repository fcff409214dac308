package actions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ErrDelimiterCollision is returned when an output name or value contains
// the generated heredoc delimiter.
var ErrDelimiterCollision = errors.New("output contains the heredoc delimiter")

// Outputs sets step outputs. With a GITHUB_OUTPUT file, outputs are appended
// as heredoc blocks; without one they are issued as set-output commands.
type Outputs struct {
	path     string
	fallback io.Writer
}

// NewOutputs creates an Outputs writer for the given GITHUB_OUTPUT path.
// fallback receives set-output commands when path is empty.
func NewOutputs(path string, fallback io.Writer) *Outputs {
	return &Outputs{path: path, fallback: fallback}
}

// Set sets one output.
func (o *Outputs) Set(name, value string) error {
	if o.path == "" {
		return IssueCommand(o.fallback, CommandSetOutput, map[string]string{"name": name}, value)
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("%w: %s", ErrDelimiterCollision, name)
	}

	return appendFile(o.path, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter))
}

// AppendStepSummary appends markdown to the job summary file.
// It is a no-op when path is empty.
func AppendStepSummary(path, markdown string) error {
	if path == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(path, markdown)
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // path comes from the runner
	if err != nil {
		return err
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
