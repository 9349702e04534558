package main

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bpnet/neuralnet"
)

const emaN = 50

// Calc exponential moving average
type ema float64

func (e ema) add(val float64) ema {
	if e == 0 {
		return ema(val)
	}
	k := 2.0 / (emaN + 1.0)
	return ema(val*k + float64(e)*(1-k))
}

// errorCurve records the magnitude of the training error signal.
type errorCurve struct {
	raw, smooth plotter.XYs
	avg         ema
}

func (c *errorCurve) observe(p neuralnet.Progress) {
	v := math.Abs(p.Signal)
	c.avg = c.avg.add(v)
	c.raw = append(c.raw, plotter.XY{X: float64(p.Iteration), Y: v})
	c.smooth = append(c.smooth, plotter.XY{X: float64(p.Iteration), Y: float64(c.avg)})
}

// save writes the curve to filePath, the format is taken from the extension.
func (c *errorCurve) save(filePath string) error {
	if len(c.raw) == 0 {
		return errors.New("no training iterations recorded")
	}
	p := plot.New()
	p.Title.Text = "Training error"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "|error|"
	p.Add(plotter.NewGrid())

	raw, err := plotter.NewLine(c.raw)
	if err != nil {
		return errors.Wrap(err, "raw error line")
	}
	raw.Color = plotutil.Color(1)
	raw.Width = vg.Points(0.5)
	smooth, err := plotter.NewLine(c.smooth)
	if err != nil {
		return errors.Wrap(err, "smoothed error line")
	}
	smooth.Color = plotutil.Color(0)
	smooth.Width = vg.Points(1.5)
	p.Add(raw, smooth)
	p.Legend.Add("per example", raw)
	p.Legend.Add("moving average", smooth)

	return errors.Wrapf(p.Save(8*vg.Inch, 5*vg.Inch, filePath), "saving plot %s", filePath)
}
