package neuralnet

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
)

const gradCheckStep = 1e-6

// GradientCheck compares the back-propagated squared-error gradient for one
// example against a central finite-difference estimate and returns the
// largest absolute difference over all weights. The weights are left as they
// were.
func (nn *NeuralNetwork) GradientCheck(x, label []float64) (float64, error) {
	p, err := nn.FeedForward(x)
	if err != nil {
		return 0, err
	}
	if n := nn.sizes[len(nn.sizes)-1]; len(label) != n {
		return 0, errors.Wrapf(ErrDimensionMismatch, "label has %d values, want %d", len(label), n)
	}
	analytic := nn.gradients(p, label)
	p.consumed = true

	var maxDiff float64
	for l, w := range nn.weights {
		// NewDense storage is contiguous
		raw := w.RawMatrix().Data
		orig := append([]float64(nil), raw...)
		loss := func(v []float64) float64 {
			copy(raw, v)
			q, err := nn.FeedForward(x)
			if err != nil {
				return math.NaN()
			}
			return nn.loss.Compute(q.Output(), label)
		}
		numeric := fd.Gradient(nil, loss, orig, &fd.Settings{
			Formula: fd.Central,
			Step:    gradCheckStep,
		})
		copy(raw, orig)

		for i, g := range analytic[l].RawMatrix().Data {
			if d := math.Abs(g - numeric[i]); d > maxDiff || math.IsNaN(d) {
				maxDiff = d
			}
		}
	}
	return maxDiff, nil
}
