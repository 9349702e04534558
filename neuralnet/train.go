package neuralnet

import (
	"math"

	"github.com/pkg/errors"
)

// Progress is reported to the observer after every training iteration.
type Progress struct {
	Iteration int
	Example   int
	Signal    float64
	Streak    int
}

// Result summarizes a training run.
type Result struct {
	Iterations int
	Converged  bool
	Streak     int
	LastSignal float64
}

// Train fits the network to ds with stochastic gradient descent: every
// iteration back-propagates one example drawn uniformly with replacement.
// Training stops once the error signal has stayed within Tolerance for
// ConsecutiveConvergence iterations in a row, or after MaxIterations. Hitting
// MaxIterations is not an error.
func (nn *NeuralNetwork) Train(ds *Dataset) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidDatasetShape, "empty dataset")
	}
	sizes, err := LayerSizes(ds.InputDim(), ds.OutputDim(), nn.conf.HiddenLayers)
	if err != nil {
		return nil, err
	}
	if err := nn.Initialize(sizes); err != nil {
		return nil, err
	}
	nn.logger.Printf("training %d examples, sizes=%v", ds.Len(), sizes)

	res := &Result{}
	for iter := 1; iter <= nn.conf.MaxIterations; iter++ {
		i := nn.rng.IntN(ds.Len())
		x, y := ds.Example(i)
		p, err := nn.FeedForward(x)
		if err != nil {
			return res, errors.Wrapf(err, "iteration %d", iter)
		}
		signal, err := nn.BackPropagate(p, y)
		res.Iterations = iter
		res.LastSignal = signal
		if err != nil {
			return res, errors.Wrapf(err, "iteration %d", iter)
		}

		if math.Abs(signal) <= nn.conf.Tolerance {
			res.Streak++
		} else {
			res.Streak = 0
		}
		if nn.observer != nil {
			nn.observer(Progress{Iteration: iter, Example: i, Signal: signal, Streak: res.Streak})
		}
		if nn.conf.LogEvery > 0 && iter%nn.conf.LogEvery == 0 {
			nn.logger.Printf("iteration %6d: error=%.6g streak=%d", iter, signal, res.Streak)
		}
		if res.Streak >= nn.conf.ConsecutiveConvergence {
			res.Converged = true
			break
		}
	}

	if res.Converged {
		nn.logger.Printf("converged at iteration %d", res.Iterations)
	} else {
		nn.logger.Printf("stopped after %d iterations without converging, last error=%.6g", res.Iterations, res.LastSignal)
	}
	return res, nil
}
