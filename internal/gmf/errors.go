package gmf

import (
	"errors"
	"fmt"

	"github.com/san-kum/galmag/internal/geom"
)

// Domain errors for field construction and evaluation.
var (
	// ErrUnknownModel indicates a model tag outside the eight fitted variants.
	ErrUnknownModel = errors.New("gmf: unknown field model")

	// ErrDimensionMismatch indicates a vector whose length does not match the
	// fixed or derived dimension it is used with.
	ErrDimensionMismatch = errors.New("gmf: dimension mismatch")

	// ErrNumericalInstability indicates the poloidal field-line solve produced
	// a negative intermediate. Unreachable with the fitted parameters.
	ErrNumericalInstability = errors.New("gmf: numerical instability in poloidal solve")
)

// EvalError wraps an evaluation error with the model and position.
type EvalError struct {
	Model   Model
	Pos     geom.Vec3
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s at %v kpc: %v", e.Model, e.Pos, e.Wrapped)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
