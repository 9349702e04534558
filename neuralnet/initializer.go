package neuralnet

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer fills a freshly allocated weight matrix.
type Initializer interface {
	Init(w *mat.Dense, src rand.Source)
}

// Uniform draws every weight independently from [Low, High).
type Uniform struct {
	Low, High float64
}

func (u Uniform) Init(w *mat.Dense, src rand.Source) {
	d := distuv.Uniform{Min: u.Low, Max: u.High, Src: src}
	fill(w, d.Rand)
}

// Normal draws every weight independently from N(Mean, StdDev²).
type Normal struct {
	Mean, StdDev float64
}

func (n Normal) Init(w *mat.Dense, src rand.Source) {
	d := distuv.Normal{Mu: n.Mean, Sigma: n.StdDev, Src: src}
	fill(w, d.Rand)
}

func fill(w *mat.Dense, gen func() float64) {
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w.Set(i, j, gen())
		}
	}
}

// newInitializer maps the config's WeightInit name to an Initializer.
func newInitializer(c Config) (Initializer, error) {
	switch c.WeightInit {
	case "", "uniform":
		return Uniform{Low: c.WeightLow, High: c.WeightHigh}, nil
	case "normal":
		return Normal{Mean: c.WeightMean, StdDev: c.WeightStdDev}, nil
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown weight initializer %q", c.WeightInit)
}
