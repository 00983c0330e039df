package mesh

import "fmt"

// Code classifies a construction failure.
type Code int

const (
	// CodeInvalidArgument reports input that can never be accepted, such as
	// an empty mesh or an outline that refers to a missing vertex.
	CodeInvalidArgument Code = iota + 1

	// CodeFailedPrecondition reports input that is well formed but cannot be
	// processed in its current state, such as non-finite vertex positions.
	CodeFailedPrecondition
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeFailedPrecondition:
		return "failed precondition"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by mesh construction and
// partitioning.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "mesh: " + e.Code.String()
	}
	return "mesh: " + e.Code.String() + ": " + e.Msg
}

// Is matches any *Error with the same code when target carries no message,
// so errors.Is(err, ErrInvalidArgument) checks the error kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Code == e.Code
}

// Sentinel errors for matching with errors.Is.
var (
	// ErrInvalidArgument matches every error with CodeInvalidArgument.
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}

	// ErrFailedPrecondition matches every error with CodeFailedPrecondition.
	ErrFailedPrecondition = &Error{Code: CodeFailedPrecondition}
)

func errorf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
