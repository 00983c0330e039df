package modeled

import (
	"fmt"

	"github.com/gogpu/modeled/mesh"
)

// Error is the structured error returned by the Shape factories. It is the
// same type the mesh package returns, so callers can inspect Code directly.
type Error = mesh.Error

// Error codes.
const (
	CodeInvalidArgument    = mesh.CodeInvalidArgument
	CodeFailedPrecondition = mesh.CodeFailedPrecondition
)

// Sentinel errors for matching with errors.Is.
var (
	ErrInvalidArgument    = mesh.ErrInvalidArgument
	ErrFailedPrecondition = mesh.ErrFailedPrecondition
)

func errorf(code mesh.Code, format string, args ...any) error {
	return &mesh.Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
