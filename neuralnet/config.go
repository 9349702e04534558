package neuralnet

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Training configuration settings
type Config struct {
	HiddenLayers           []int       `json:"hidden_layers"`
	Activation             string      `json:"activation"`
	MaxIterations          int         `json:"max_iterations"`
	LearningRate           float64     `json:"learning_rate"`
	WeightInit             string      `json:"weight_init"`
	WeightLow              float64     `json:"weight_low"`
	WeightHigh             float64     `json:"weight_high"`
	WeightMean             float64     `json:"weight_mean"`
	WeightStdDev           float64     `json:"weight_stddev"`
	BinaryClassification   bool        `json:"binary_classification"`
	Tolerance              float64     `json:"tolerance"`
	ConsecutiveConvergence int         `json:"consecutive_convergence"`
	ErrorSignal            ErrorSignal `json:"error_signal"`
	RandSeed               int64       `json:"rand_seed"`
	LogEvery               int         `json:"log_every"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		HiddenLayers:           []int{100},
		Activation:             "logistic",
		MaxIterations:          1000,
		LearningRate:           0.1,
		WeightInit:             "uniform",
		WeightLow:              0,
		WeightHigh:             1,
		WeightStdDev:           1,
		BinaryClassification:   true,
		Tolerance:              1e-6,
		ConsecutiveConvergence: 10,
		ErrorSignal:            AbsoluteError,
	}
}

// LoadConfig decodes a JSON file on top of DefaultConfig.
func LoadConfig(filePath string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(filePath)
	if err != nil {
		return c, errors.Wrap(err, "loading config")
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "decoding config %s", filePath)
	}
	return c, nil
}

// Validate checks every field. An unknown activation is reported as
// ErrUnsupportedActivation, everything else as ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := ParseActivation(c.Activation); err != nil {
		return err
	}
	for i, h := range c.HiddenLayers {
		if h <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "hidden layer %d has width %d", i, h)
		}
	}
	switch {
	case c.MaxIterations <= 0:
		return errors.Wrapf(ErrInvalidConfig, "max iterations %d", c.MaxIterations)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return errors.Wrapf(ErrInvalidConfig, "learning rate %v", c.LearningRate)
	case c.Tolerance < 0 || math.IsNaN(c.Tolerance):
		return errors.Wrapf(ErrInvalidConfig, "tolerance %v", c.Tolerance)
	case c.ConsecutiveConvergence <= 0:
		return errors.Wrapf(ErrInvalidConfig, "consecutive convergence %d", c.ConsecutiveConvergence)
	case c.LogEvery < 0:
		return errors.Wrapf(ErrInvalidConfig, "log every %d", c.LogEvery)
	}
	switch c.WeightInit {
	case "", "uniform":
		if !(c.WeightLow < c.WeightHigh) {
			return errors.Wrapf(ErrInvalidConfig, "weight range [%v, %v)", c.WeightLow, c.WeightHigh)
		}
	case "normal":
		if !(c.WeightStdDev > 0) {
			return errors.Wrapf(ErrInvalidConfig, "weight stddev %v", c.WeightStdDev)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown weight initializer %q", c.WeightInit)
	}
	return c.ErrorSignal.validate()
}

func (c Config) String() string {
	str := []string{"== Config =="}
	add := func(key string, val interface{}) {
		str = append(str, fmt.Sprintf("%-24s: %v", key, val))
	}
	add("HiddenLayers", c.HiddenLayers)
	add("Activation", c.Activation)
	add("MaxIterations", c.MaxIterations)
	add("LearningRate", c.LearningRate)
	if c.WeightInit == "normal" {
		add("WeightInit", fmt.Sprintf("normal(%v, %v)", c.WeightMean, c.WeightStdDev))
	} else {
		add("WeightInit", fmt.Sprintf("uniform[%v, %v)", c.WeightLow, c.WeightHigh))
	}
	add("BinaryClassification", c.BinaryClassification)
	add("Tolerance", c.Tolerance)
	add("ConsecutiveConvergence", c.ConsecutiveConvergence)
	add("ErrorSignal", c.ErrorSignal)
	add("RandSeed", c.RandSeed)
	return strings.Join(str, "\n")
}
