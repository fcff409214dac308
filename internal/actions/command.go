package actions

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Workflow command names.
const (
	CommandDebug     = "debug"
	CommandNotice    = "notice"
	CommandWarning   = "warning"
	CommandError     = "error"
	CommandSetOutput = "set-output"
)

// EscapeData escapes a command message.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// EscapeProperty escapes a command property value.
func EscapeProperty(s string) string {
	s = EscapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}

// FormatCommand renders a workflow command line without trailing newline:
//
//	::warning file=a.js,line=1::message
func FormatCommand(command string, properties map[string]string, message string) string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(command)

	if len(properties) > 0 {
		keys := make([]string, 0, len(properties))
		for k, v := range properties {
			if v != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(EscapeProperty(properties[k]))
		}
	}

	b.WriteString("::")
	b.WriteString(EscapeData(message))
	return b.String()
}

// IssueCommand writes a workflow command line to w.
func IssueCommand(w io.Writer, command string, properties map[string]string, message string) error {
	_, err := fmt.Fprintln(w, FormatCommand(command, properties, message))
	return err
}
