// Package operations implements the add-to-ignore and untrack actions on top
// of the ignore and git packages.
package operations

import (
	"errors"
)

// Kind classifies an action failure.
type Kind int

const (
	KindPrecondition Kind = iota + 1
	KindResolution
	KindExecution
	KindUnexpected
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrPrecondition = errors.New("precondition failed")
	ErrResolution   = errors.New("repository not resolved")
	ErrExecution    = errors.New("command failed")
	ErrUnexpected   = errors.New("unexpected failure")
)

// User-visible messages.
const (
	msgNoProject        = "No project found"
	msgNoFile           = "No file selected"
	msgNotGitProject    = "This project is not a Git repository. Please initialize Git first."
	msgNotGitRepository = "Not a Git repository"
	msgGitCommandFailed = "Git command failed: "
	msgRemoved          = "Removed from Git index: "
	msgRemoveFailed     = "Failed to remove from Git index: "
	titleAdded          = "Added to ignore file"
	msgAdded            = "Added: "
	msgAlreadyIgnored   = "Already ignored: "
	msgAddFailed        = "Failed to add to ignore file: "
	titleError          = "Error"
)

func (k Kind) sentinel() error {
	switch k {
	case KindPrecondition:
		return ErrPrecondition
	case KindResolution:
		return ErrResolution
	case KindExecution:
		return ErrExecution
	default:
		return ErrUnexpected
	}
}

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindResolution:
		return "resolution"
	case KindExecution:
		return "execution"
	default:
		return "unexpected"
	}
}

// Error is a failed action. Message is what the user is shown.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
