package neuralnet

import "github.com/pkg/errors"

var (
	ErrInvalidDatasetShape   = errors.New("invalid dataset shape")
	ErrUnsupportedActivation = errors.New("unsupported activation")
	ErrNumericDivergence     = errors.New("numeric divergence")
	ErrDimensionMismatch     = errors.New("dimension mismatch")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrNotInitialized        = errors.New("network is not initialized")

	// A Pass must be consumed by exactly one BackPropagate call, before any
	// other call changes the weights it was computed with.
	ErrPassConsumed = errors.New("pass already back-propagated")
	ErrStalePass    = errors.New("weights changed since pass was computed")
	ErrForeignPass  = errors.New("pass was not produced by this network")
)
