package models

// PermissionDecision is the outcome of an OS permission request. It is a
// closed set rather than the platform's loosely shaped result objects, so
// callers can distinguish a regular denial from a permanent one (which should
// send the user to system settings instead of re-prompting).
type PermissionDecision int

const (
	PermissionGranted PermissionDecision = iota
	PermissionDenied
	PermissionPermanentlyDenied
)

func (d PermissionDecision) String() string {
	switch d {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	case PermissionPermanentlyDenied:
		return "permanently_denied"
	default:
		return "unknown"
	}
}
