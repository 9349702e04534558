package neuralnet

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// LossFunction defines the interface for computing loss and its gradient.
type LossFunction interface {
	// Compute returns the loss value given the network output and the target.
	Compute(output []float64, target []float64) float64
	// Gradient returns ∂L/∂output for each output neuron.
	Gradient(output []float64, target []float64) []float64
}

// SquaredError is the sum of squared component errors.
type SquaredError struct{}

func (SquaredError) Compute(output []float64, target []float64) float64 {
	diff := make([]float64, len(output))
	floats.SubTo(diff, output, target)
	return floats.Dot(diff, diff)
}

// Gradient returns 2 * (output - target).
func (SquaredError) Gradient(output []float64, target []float64) []float64 {
	grad := make([]float64, len(output))
	floats.SubTo(grad, output, target)
	floats.Scale(2, grad)
	return grad
}

// ErrorSignal selects the scalar reported by BackPropagate and compared
// against Config.Tolerance by the training loop.
type ErrorSignal string

const (
	// SignedError is mean(output - label). Components of opposite sign cancel,
	// so it can report convergence while individual outputs are still wrong.
	SignedError ErrorSignal = "signed"
	// AbsoluteError is mean(|output - label|).
	AbsoluteError ErrorSignal = "absolute"
	// SquaredSignal is mean((output - label)^2).
	SquaredSignal ErrorSignal = "squared"
)

func (s ErrorSignal) validate() error {
	switch s {
	case SignedError, AbsoluteError, SquaredSignal:
		return nil
	}
	return errors.Wrapf(ErrInvalidConfig, "unknown error signal %q", string(s))
}

// Measure reduces output - target to a single number.
func (s ErrorSignal) Measure(output, target []float64) float64 {
	if len(output) == 0 {
		return 0
	}
	n := float64(len(output))
	switch s {
	case SignedError:
		return (floats.Sum(output) - floats.Sum(target)) / n
	case SquaredSignal:
		return SquaredError{}.Compute(output, target) / n
	default:
		var sum float64
		for i := range output {
			sum += math.Abs(output[i] - target[i])
		}
		return sum / n
	}
}
