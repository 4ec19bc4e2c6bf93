package errors

import "errors"

// Domain errors
var (
	// Preflight errors. These abort the run before any category executes.
	ErrUnsupportedPlatform = errors.New("platform not supported for probing")
	ErrCapabilityMissing   = errors.New("required probing capability unavailable")

	// ErrIssuesFound is returned after a completed run that recorded at
	// least one Error-severity finding; it maps to exit status 1.
	ErrIssuesFound = errors.New("diagnostics completed with blocking issues")

	// Session errors
	ErrSessionPhase     = errors.New("invalid session phase transition")
	ErrSessionFinalized = errors.New("session already summarized")

	// Probe errors
	ErrSystemProxyUnavailable = errors.New("system proxy settings unavailable on this platform")
	ErrNoOutboundRoute        = errors.New("no outbound route to target")
)
