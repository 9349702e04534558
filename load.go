package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"bpnet/pgm"
)

// readList returns the non-blank lines of a dataset list file, one image path
// per line.
func readList(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var paths []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", filePath)
	}
	return paths, nil
}

// labelFor is 1 for paths containing marker and 0 otherwise.
func labelFor(path, marker string) float64 {
	if strings.Contains(path, marker) {
		return 1
	}
	return 0
}

// loadImages decodes every image into one row of an N×D feature tensor and
// labels it into an N×1 label tensor. Relative paths are resolved against
// root. All images must have the same number of pixels.
func loadImages(paths []string, root, marker string) (images, labels tensor.Tensor, err error) {
	if len(paths) == 0 {
		return nil, nil, errors.New("no images listed")
	}
	var backing, lbl []float64
	size := -1
	for _, listed := range paths {
		p := listed
		if root != "" && !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		img, err := pgm.Load(p)
		if err != nil {
			return nil, nil, err
		}
		v := img.Vector()
		if size < 0 {
			size = len(v)
			backing = make([]float64, 0, size*len(paths))
		} else if len(v) != size {
			return nil, nil, errors.Errorf("%s has %d pixels, want %d", p, len(v), size)
		}
		backing = append(backing, v...)
		lbl = append(lbl, labelFor(listed, marker))
	}
	images = tensor.New(tensor.WithShape(len(paths), size), tensor.WithBacking(backing))
	labels = tensor.New(tensor.WithShape(len(paths), 1), tensor.WithBacking(lbl))
	return images, labels, nil
}
