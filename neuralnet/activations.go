package neuralnet

import (
	"math"

	"github.com/pkg/errors"
)

// ActivationFunction is an element-wise nonlinearity. Derivative takes the
// value returned by Activate, not the raw input, so back-propagation can reuse
// the outputs cached during the forward pass.
type ActivationFunction interface {
	Activate(x float64) float64
	Derivative(y float64) float64
	Name() string
}

type Logistic struct{}

func (Logistic) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func (Logistic) Derivative(y float64) float64 {
	return y * (1 - y)
}

func (Logistic) Name() string { return "logistic" }

type Tanh struct{}

func (Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

func (Tanh) Derivative(y float64) float64 {
	return 1 - y*y
}

func (Tanh) Name() string { return "tanh" }

// ParseActivation returns the activation registered under name.
func ParseActivation(name string) (ActivationFunction, error) {
	switch name {
	case "logistic", "sigmoid":
		return Logistic{}, nil
	case "tanh":
		return Tanh{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedActivation, "%q", name)
}

func apply(f func(float64) float64, v []float64) {
	for i, x := range v {
		v[i] = f(x)
	}
}
