package dialtree

import "fmt"

// DuplicateLabelError is returned when two children are registered under
// the same parent with the same label. The registration is rejected and
// the parent is left unchanged.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("dialtree: duplicate label %q", e.Label)
}

// SignatureError is returned when a handler's parameters or results
// cannot be mapped onto the conversation roles. It is raised at Bind
// time so a malformed handler fails before any conversation runs.
type SignatureError struct {
	Reason string
}

func (e *SignatureError) Error() string {
	return "dialtree: unsupported handler signature: " + e.Reason
}
