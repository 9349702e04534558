package neuralnet

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Threshold splits logistic outputs into the two binary classes.
const Threshold = 0.5

// NeuralNetwork is a fully connected feedforward network. Every layer but the
// output reserves its first unit as a bias fixed at 1. A NeuralNetwork is not
// safe for concurrent use.
type NeuralNetwork struct {
	conf       Config
	activation ActivationFunction
	weightInit Initializer
	loss       LossFunction
	opt        Optimizer
	src        rand.Source
	rng        *rand.Rand

	sizes   []int
	weights []*mat.Dense
	// bumped on every weight change, used to reject stale passes
	version uint64

	logger   *log.Logger
	observer func(Progress)
}

// NewNeuralNetwork validates conf and returns an uninitialized network. The
// weights are created by Initialize or Train.
func NewNeuralNetwork(conf Config) (*NeuralNetwork, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	act, err := ParseActivation(conf.Activation)
	if err != nil {
		return nil, err
	}
	wi, err := newInitializer(conf)
	if err != nil {
		return nil, err
	}
	seed := conf.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewPCG(uint64(seed), uint64(seed)>>1)
	nn := &NeuralNetwork{
		conf:       conf,
		activation: act,
		weightInit: wi,
		loss:       SquaredError{},
		opt:        &SGD{Lr: conf.LearningRate},
		src:        src,
		rng:        rand.New(src),
		logger:     log.New(io.Discard, "", 0),
	}
	return nn, nil
}

// SetLogger directs training progress to l.
func (nn *NeuralNetwork) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	nn.logger = l
}

// SetObserver registers fn to be called after every training iteration.
func (nn *NeuralNetwork) SetObserver(fn func(Progress)) {
	nn.observer = fn
}

func (nn *NeuralNetwork) Config() Config {
	return nn.conf
}

func (nn *NeuralNetwork) Activation() ActivationFunction {
	return nn.activation
}

// LayerSizes derives [inputDim+1, hidden..., outputDim]. The extra input unit
// is the bias.
func LayerSizes(inputDim, outputDim int, hidden []int) ([]int, error) {
	if inputDim <= 0 || outputDim <= 0 {
		return nil, errors.Wrapf(ErrInvalidDatasetShape, "input dim %d, output dim %d", inputDim, outputDim)
	}
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputDim+1)
	for i, h := range hidden {
		if h <= 0 {
			return nil, errors.Wrapf(ErrInvalidDatasetShape, "hidden layer %d has width %d", i, h)
		}
		sizes = append(sizes, h)
	}
	return append(sizes, outputDim), nil
}

// Initialize replaces every weight matrix with a freshly drawn one of shape
// (sizes[l], sizes[l+1]).
func (nn *NeuralNetwork) Initialize(sizes []int) error {
	if len(sizes) < 2 {
		return errors.Wrapf(ErrInvalidDatasetShape, "need at least 2 layers, got %d", len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return errors.Wrapf(ErrInvalidDatasetShape, "layer %d has size %d", i, s)
		}
	}
	weights := make([]*mat.Dense, len(sizes)-1)
	for l := range weights {
		weights[l] = mat.NewDense(sizes[l], sizes[l+1], nil)
		nn.weightInit.Init(weights[l], nn.src)
	}
	nn.sizes = append([]int(nil), sizes...)
	nn.weights = weights
	nn.version++
	return nil
}

// Sizes returns a copy of the layer sizes, bias unit included.
func (nn *NeuralNetwork) Sizes() []int {
	return append([]int(nil), nn.sizes...)
}

// Weights returns a copy of every weight matrix.
func (nn *NeuralNetwork) Weights() []*mat.Dense {
	out := make([]*mat.Dense, len(nn.weights))
	for l, w := range nn.weights {
		out[l] = mat.DenseCopyOf(w)
	}
	return out
}

// Pass holds the layer activations of one forward run. It is owned by the
// caller until handed to BackPropagate, which consumes it.
type Pass struct {
	owner    *NeuralNetwork
	version  uint64
	layers   []*mat.VecDense
	consumed bool
}

// Output returns a copy of the output layer.
func (p *Pass) Output() []float64 {
	if len(p.layers) == 0 {
		return nil
	}
	last := p.layers[len(p.layers)-1]
	return mat.Col(nil, 0, last)
}

// FeedForward prepends the bias to x and propagates it through every layer.
func (nn *NeuralNetwork) FeedForward(x []float64) (*Pass, error) {
	if nn.weights == nil {
		return nil, ErrNotInitialized
	}
	if len(x) != nn.sizes[0]-1 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "input has %d values, want %d", len(x), nn.sizes[0]-1)
	}
	in := make([]float64, nn.sizes[0])
	in[0] = 1
	copy(in[1:], x)

	layers := make([]*mat.VecDense, len(nn.weights)+1)
	layers[0] = mat.NewVecDense(len(in), in)
	for l, w := range nn.weights {
		out := mat.NewVecDense(nn.sizes[l+1], nil)
		// [1 x n_l] . [n_l x n_l+1]
		out.MulVec(w.T(), layers[l])
		apply(nn.activation.Activate, out.RawVector().Data)
		if l < len(nn.weights)-1 {
			out.SetVec(0, 1)
		}
		layers[l+1] = out
	}
	return &Pass{owner: nn, version: nn.version, layers: layers}, nil
}

// BackPropagate computes the error gradients of p against label, updates the
// weights and returns the configured error signal for the pass. On
// ErrNumericDivergence the weights are left as they were before the call.
func (nn *NeuralNetwork) BackPropagate(p *Pass, label []float64) (float64, error) {
	if err := nn.checkPass(p); err != nil {
		return 0, err
	}
	output := p.Output()
	if len(label) != len(output) {
		return 0, errors.Wrapf(ErrDimensionMismatch, "label has %d values, want %d", len(label), len(output))
	}
	grads := nn.gradients(p, label)
	p.consumed = true
	p.layers = nil

	signal := nn.conf.ErrorSignal.Measure(output, label)
	if err := nn.opt.Apply(nn.weights, grads); err != nil {
		return signal, err
	}
	nn.version++
	return signal, nil
}

func (nn *NeuralNetwork) checkPass(p *Pass) error {
	switch {
	case p == nil || p.owner != nn:
		return ErrForeignPass
	case p.consumed:
		return ErrPassConsumed
	case p.version != nn.version:
		return ErrStalePass
	}
	return nil
}

// gradients returns dE/dW for every layer, where E is the squared error of the
// pass. All deltas are taken from the current weights, nothing is modified.
func (nn *NeuralNetwork) gradients(p *Pass, label []float64) []*mat.Dense {
	last := len(nn.weights)
	out := p.layers[last].RawVector().Data

	// output layer: dE/dout ⊙ f'(out)
	d := nn.loss.Gradient(out, label)
	for i, y := range out {
		d[i] *= nn.activation.Derivative(y)
	}
	delta := mat.NewVecDense(len(d), d)

	grads := make([]*mat.Dense, last)
	for l := last - 1; l >= 0; l-- {
		g := mat.NewDense(nn.sizes[l], nn.sizes[l+1], nil)
		g.Outer(1, p.layers[l], delta)
		grads[l] = g
		if l == 0 {
			break
		}
		// [n_l x n_l+1] . [n_l+1] => [n_l]
		prev := mat.NewVecDense(nn.sizes[l], nil)
		prev.MulVec(nn.weights[l], delta)
		x := p.layers[l].RawVector().Data
		raw := prev.RawVector().Data
		for i, y := range x {
			raw[i] *= nn.activation.Derivative(y)
		}
		delta = prev
	}
	return grads
}

// Predict runs x forward. With BinaryClassification set and a logistic
// activation every output is thresholded to 0 or 1.
func (nn *NeuralNetwork) Predict(x []float64) ([]float64, error) {
	p, err := nn.FeedForward(x)
	if err != nil {
		return nil, err
	}
	out := p.Output()
	if _, ok := nn.activation.(Logistic); ok && nn.conf.BinaryClassification {
		for i, v := range out {
			if v >= Threshold {
				out[i] = 1
			} else {
				out[i] = 0
			}
		}
	}
	return out, nil
}

// Accuracy returns the fraction of examples in ds whose every output falls on
// the same side of Threshold as the corresponding label.
func (nn *NeuralNetwork) Accuracy(ds *Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, errors.Wrap(ErrInvalidDatasetShape, "empty dataset")
	}
	if nn.weights != nil && ds.OutputDim() != nn.sizes[len(nn.sizes)-1] {
		return 0, errors.Wrapf(ErrDimensionMismatch, "dataset has %d outputs, network %d", ds.OutputDim(), nn.sizes[len(nn.sizes)-1])
	}
	correct := 0
	for i := 0; i < ds.Len(); i++ {
		x, y := ds.Example(i)
		out, err := nn.Predict(x)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		if sameClasses(out, y) {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}

// Classify reports whether every value is at or above Threshold.
func Classify(v []float64) bool {
	for _, x := range v {
		if x < Threshold {
			return false
		}
	}
	return true
}

func sameClasses(out, label []float64) bool {
	for i := range out {
		if (out[i] >= Threshold) != (label[i] >= Threshold) {
			return false
		}
	}
	return true
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("NeuralNetwork %s sizes=%v\n", nn.activation.Name(), nn.sizes))
	for l, w := range nn.weights {
		r, c := w.Dims()
		sb.WriteString(fmt.Sprintf("Layer %d: %dx%d\n", l, r, c))
	}
	return sb.String()
}
