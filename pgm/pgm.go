// Package pgm decodes portable graymap images.
package pgm

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spakin/netpbm"
)

// Image is an 8-bit grayscale raster.
type Image struct {
	Width, Height int
	MaxVal        int
	Pix           []uint8
}

// Decode reads a PGM image, raw (P5) or plain (P2), with at most 8 bits per
// pixel. Other netpbm formats are rejected.
func Decode(r io.Reader) (*Image, error) {
	decoded, err := netpbm.Decode(r, &netpbm.DecodeOptions{
		Target: netpbm.PGM,
		Exact:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "decoding pgm")
	}
	gray, ok := decoded.(*netpbm.GrayM)
	if !ok {
		return nil, errors.Errorf("16-bit images are not supported (max value %d)", decoded.MaxValue())
	}
	b := gray.Bounds()
	if b.Empty() {
		return nil, errors.Errorf("invalid size %dx%d", b.Dx(), b.Dy())
	}
	img := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		MaxVal: int(gray.Model.M),
		Pix:    make([]uint8, 0, b.Dx()*b.Dy()),
	}
	if img.MaxVal == 0 {
		return nil, errors.New("invalid max value 0")
	}
	for y := 0; y < img.Height; y++ {
		off := y * gray.Stride
		img.Pix = append(img.Pix, gray.Pix[off:off+img.Width]...)
	}
	return img, nil
}

// Load decodes the image file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := Decode(f)
	return img, errors.Wrap(err, path)
}

// Vector returns the pixels scaled into [0, 1] by MaxVal.
func (img *Image) Vector() []float64 {
	v := make([]float64, len(img.Pix))
	for i, p := range img.Pix {
		v[i] = float64(p) / float64(img.MaxVal)
	}
	return v
}
