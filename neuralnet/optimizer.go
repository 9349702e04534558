package neuralnet

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Optimizer applies one set of gradients to the weights, layer by layer.
type Optimizer interface {
	Apply(weights, grads []*mat.Dense) error
}

// SGD implements plain stochastic gradient descent: w -= Lr * g.
type SGD struct {
	Lr float64
}

// Apply updates weights in place. If any updated weight would not be finite
// it reports ErrNumericDivergence and leaves every layer unchanged.
func (o *SGD) Apply(weights, grads []*mat.Dense) error {
	if len(weights) != len(grads) {
		return errors.Wrapf(ErrDimensionMismatch, "%d weight matrices but %d gradients", len(weights), len(grads))
	}
	next := make([]*mat.Dense, len(weights))
	for l, g := range grads {
		next[l] = scaled(-o.Lr, g)
		next[l].Add(weights[l], next[l])
		if i, j, ok := firstNonFinite(next[l]); ok {
			return errors.Wrapf(ErrNumericDivergence, "layer %d weight (%d, %d) = %v", l, i, j, next[l].At(i, j))
		}
	}
	for l, w := range next {
		weights[l].Copy(w)
	}
	return nil
}

func scaled(f float64, m *mat.Dense) *mat.Dense {
	var s mat.Dense
	s.Scale(f, m)
	return &s
}

func firstNonFinite(m *mat.Dense) (int, int, bool) {
	raw := m.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
