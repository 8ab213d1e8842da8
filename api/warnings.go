package api

import "strings"

// SessionWarningMarker prefixes log lines a session script emits for conditions
// that should not fail the build but have to surface in the run summary, like a
// skipped strip or a failed ownership fixup.
const SessionWarningMarker = "[cratebuild] warning: "

// ParseSessionWarning extracts a warning from a container log line; the session
// script emits warnings as '[cratebuild] warning: <step>: <message>'.
func ParseSessionWarning(logLine string) (warning SessionWarning, ok bool) {
	if !strings.HasPrefix(logLine, SessionWarningMarker) {
		return warning, false
	}

	remainder := strings.TrimPrefix(logLine, SessionWarningMarker)

	parts := strings.SplitN(remainder, ": ", 2)
	if len(parts) == 2 {
		return SessionWarning{Step: parts[0], Message: parts[1]}, true
	}

	return SessionWarning{Message: remainder}, true
}
