package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Dataset holds N examples: an N×D feature matrix and an N×L label matrix.
// It is read-only once built.
type Dataset struct {
	x *mat.Dense
	y *mat.Dense
}

// NewDataset builds a Dataset from a 2-D feature tensor and a 1-D or 2-D label
// tensor. A flat label tensor is read as one output per example.
func NewDataset(features, labels tensor.Tensor) (*Dataset, error) {
	if features == nil || labels == nil {
		return nil, errors.Wrap(ErrInvalidDatasetShape, "nil tensor")
	}
	x, err := denseFromTensor(features, false)
	if err != nil {
		return nil, errors.Wrap(err, "features")
	}
	y, err := denseFromTensor(labels, true)
	if err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	return newDataset(x, y)
}

// DatasetFromRows builds a Dataset from row slices. Every row of a matrix must
// have the same length.
func DatasetFromRows(features, labels [][]float64) (*Dataset, error) {
	x, err := denseFromRows(features)
	if err != nil {
		return nil, errors.Wrap(err, "features")
	}
	y, err := denseFromRows(labels)
	if err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	return newDataset(x, y)
}

func newDataset(x, y *mat.Dense) (*Dataset, error) {
	xr, _ := x.Dims()
	yr, _ := y.Dims()
	if xr != yr {
		return nil, errors.Wrapf(ErrInvalidDatasetShape, "%d feature rows but %d label rows", xr, yr)
	}
	return &Dataset{x: x, y: y}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	r, _ := d.x.Dims()
	return r
}

// InputDim returns the raw feature dimensionality, bias excluded.
func (d *Dataset) InputDim() int {
	_, c := d.x.Dims()
	return c
}

// OutputDim returns the label dimensionality.
func (d *Dataset) OutputDim() int {
	_, c := d.y.Dims()
	return c
}

// Example returns views of row i. Callers must not modify them.
func (d *Dataset) Example(i int) (features, label []float64) {
	return d.x.RawRowView(i), d.y.RawRowView(i)
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(ErrInvalidDatasetShape, "zero dimensionality")
	}
	cols := len(rows[0])
	m := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrInvalidDatasetShape, "row %d has %d columns, want %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

func denseFromTensor(t tensor.Tensor, allowFlat bool) (*mat.Dense, error) {
	shape := t.Shape()
	var rows, cols int
	switch {
	case len(shape) == 2:
		rows, cols = shape[0], shape[1]
	case len(shape) == 1 && allowFlat:
		rows, cols = shape[0], 1
	default:
		return nil, errors.Wrapf(ErrInvalidDatasetShape, "tensor shape %v", shape)
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDatasetShape, "tensor shape %v", shape)
	}
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var v interface{}
			var err error
			if len(shape) == 1 {
				v, err = t.At(i)
			} else {
				v, err = t.At(i, j)
			}
			if err != nil {
				return nil, errors.Wrapf(err, "reading element (%d, %d)", i, j)
			}
			f, err := toFloat64(v)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, f)
		}
	}
	return m, nil
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	}
	return 0, errors.Wrapf(ErrInvalidDatasetShape, "unsupported element type %T", v)
}
