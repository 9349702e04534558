package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bpnet/neuralnet"
)

func writePGM(t *testing.T, dir, name string, pix ...byte) string {
	t.Helper()
	data := append([]byte("P5\n# test\n2 2\n255\n"), pix...)
	filePath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func writeList(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return filePath
}

func TestIntList(t *testing.T) {
	var l intList
	if err := l.Set("100, 20,5"); err != nil {
		t.Fatal(err)
	}
	if got := l.String(); got != "100,20,5" {
		t.Errorf("String() = %q; want 100,20,5", got)
	}
	if err := l.Set("4,x"); err == nil {
		t.Error("Set(4,x) returned no error")
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-lr", "0.2", "-config", "a.json"}, "a.json"},
		{[]string{"--config=b.json"}, "b.json"},
		{[]string{"-train", "config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := configPath(tt.args); got != tt.want {
			t.Errorf("configPath(%v) = %q; want %q", tt.args, got, tt.want)
		}
	}
}

func TestReadList(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "train.list", "gestures/a_down.pgm", "", "  gestures/b_up.pgm  ")
	paths, err := readList(list)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "gestures/a_down.pgm" || paths[1] != "gestures/b_up.pgm" {
		t.Errorf("readList = %q", paths)
	}
	if _, err := readList(filepath.Join(dir, "missing.list")); err == nil {
		t.Error("readList of a missing file returned no error")
	}
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePGM(t, dir, "g/down_1.pgm", 255, 255, 0, 0),
		writePGM(t, dir, "g/up_1.pgm", 0, 0, 255, 51),
	}
	images, labels, err := loadImages(paths, dir, "down")
	if err != nil {
		t.Fatalf("loadImages: %v", err)
	}
	ds, err := neuralnet.NewDataset(images, labels)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 2 || ds.InputDim() != 4 || ds.OutputDim() != 1 {
		t.Fatalf("dataset is %d x (%d -> %d); want 2 x (4 -> 1)", ds.Len(), ds.InputDim(), ds.OutputDim())
	}
	x, y := ds.Example(1)
	if y[0] != 0 || x[2] != 1 || x[3] != 0.2 {
		t.Errorf("Example(1) = %v, %v", x, y)
	}
	if _, y := ds.Example(0); y[0] != 1 {
		t.Errorf("down image labelled %v; want 1", y[0])
	}

	if _, _, err := loadImages(nil, dir, "down"); err == nil {
		t.Error("loadImages of no paths returned no error")
	}
	odd := filepath.Join(dir, "odd.pgm")
	if err := os.WriteFile(odd, append([]byte("P5\n1 1\n255\n"), 7), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadImages([]string{paths[0], odd}, dir, "down"); err == nil {
		t.Error("loadImages accepted images of different sizes")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var train []string
	for i := 0; i < 3; i++ {
		train = append(train,
			writePGM(t, dir, "down"+string(rune('a'+i))+".pgm", 255, 255, 0, 0),
			writePGM(t, dir, "up"+string(rune('a'+i))+".pgm", 0, 0, 255, 255),
		)
	}
	trainList := writeList(t, dir, "train.list", train...)
	testList := writeList(t, dir, "test.list", train[0], train[1])
	plotFile := filepath.Join(dir, "error.svg")

	conf := neuralnet.DefaultConfig()
	conf.HiddenLayers = []int{4}
	conf.LearningRate = 0.5
	conf.MaxIterations = 2000
	conf.WeightLow, conf.WeightHigh = -1, 1
	conf.RandSeed = 9
	if err := run(conf, trainList, testList, dir, "down", plotFile); err != nil {
		t.Fatalf("run: %v", err)
	}
	if st, err := os.Stat(plotFile); err != nil || st.Size() == 0 {
		t.Errorf("plot file not written: %v", err)
	}

	nn, err := neuralnet.NewNeuralNetwork(conf)
	if err != nil {
		t.Fatal(err)
	}
	images, labels, err := loadImages(train, dir, "down")
	if err != nil {
		t.Fatal(err)
	}
	ds, err := neuralnet.NewDataset(images, labels)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nn.Train(ds); err != nil {
		t.Fatal(err)
	}
	correct, err := evaluate(nn, train, dir, "down")
	if err != nil {
		t.Fatal(err)
	}
	if correct != len(train) {
		t.Errorf("evaluate: %d of %d correct", correct, len(train))
	}
}

func TestErrorCurve(t *testing.T) {
	var c errorCurve
	if err := c.save(filepath.Join(t.TempDir(), "empty.svg")); err == nil {
		t.Error("saving an empty curve returned no error")
	}
	for i, s := range []float64{-0.5, 0.25, 0.1} {
		c.observe(neuralnet.Progress{Iteration: i + 1, Signal: s})
	}
	if c.raw[0].Y != 0.5 || c.smooth[0].Y != 0.5 {
		t.Errorf("first point = %v / %v; want 0.5", c.raw[0], c.smooth[0])
	}
	if c.smooth[2].Y >= 0.5 || c.smooth[2].Y <= 0.1 {
		t.Errorf("moving average %v not between the samples", c.smooth[2].Y)
	}
}
