package neuralnet

import (
	"testing"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

func TestNewDatasetFromTensors(t *testing.T) {
	x := tensor.New(tensor.WithShape(3, 2), tensor.WithBacking([]float64{0, 0.5, 1, 0.25, 0.75, 1}))
	y := tensor.New(tensor.WithShape(3), tensor.WithBacking([]float64{1, 0, 1}))
	ds, err := NewDataset(x, y)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if ds.Len() != 3 || ds.InputDim() != 2 || ds.OutputDim() != 1 {
		t.Errorf("dataset is %d x (%d -> %d); want 3 x (2 -> 1)", ds.Len(), ds.InputDim(), ds.OutputDim())
	}
	features, label := ds.Example(1)
	if features[0] != 1 || features[1] != 0.25 || label[0] != 0 {
		t.Errorf("Example(1) = %v, %v; want [1 0.25], [0]", features, label)
	}
}

func TestNewDatasetFloat32(t *testing.T) {
	x := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float32{0.5, 1, 0, 0.25}))
	y := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float32{1, 0, 0, 1}))
	ds, err := NewDataset(x, y)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if ds.OutputDim() != 2 {
		t.Errorf("OutputDim = %d; want 2", ds.OutputDim())
	}
	features, _ := ds.Example(1)
	if features[1] != 0.25 {
		t.Errorf("Example(1) features = %v; want [0 0.25]", features)
	}
}

func TestNewDatasetShapeErrors(t *testing.T) {
	tests := []struct {
		description string
		x, y        tensor.Tensor
	}{
		{
			"row counts differ",
			tensor.New(tensor.WithShape(3, 2), tensor.WithBacking(make([]float64, 6))),
			tensor.New(tensor.WithShape(2), tensor.WithBacking(make([]float64, 2))),
		},
		{
			"flat features",
			tensor.New(tensor.WithShape(4), tensor.WithBacking(make([]float64, 4))),
			tensor.New(tensor.WithShape(4), tensor.WithBacking(make([]float64, 4))),
		},
		{
			"3-d labels",
			tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(make([]float64, 4))),
			tensor.New(tensor.WithShape(2, 1, 1), tensor.WithBacking(make([]float64, 2))),
		},
		{"nil labels", tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(make([]float64, 4))), nil},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if _, err := NewDataset(tt.x, tt.y); !errors.Is(err, ErrInvalidDatasetShape) {
				t.Errorf("NewDataset error = %v; want ErrInvalidDatasetShape", err)
			}
		})
	}
}

func TestDatasetFromRowsErrors(t *testing.T) {
	if _, err := DatasetFromRows([][]float64{{1, 2}, {3}}, [][]float64{{1}, {0}}); !errors.Is(err, ErrInvalidDatasetShape) {
		t.Errorf("ragged rows error = %v; want ErrInvalidDatasetShape", err)
	}
	if _, err := DatasetFromRows(nil, nil); !errors.Is(err, ErrInvalidDatasetShape) {
		t.Errorf("empty rows error = %v; want ErrInvalidDatasetShape", err)
	}
	if _, err := DatasetFromRows([][]float64{{}}, [][]float64{{1}}); !errors.Is(err, ErrInvalidDatasetShape) {
		t.Errorf("zero dimensionality error = %v; want ErrInvalidDatasetShape", err)
	}
}
