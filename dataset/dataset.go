package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// Canonical spatial resolution every image is resampled to before
// flattening. One row of the feature matrix is Width*Height intensities.
const (
	Width    = 64
	Height   = 64
	Features = Width * Height
)

/*
Sample is a single labeled image observation reduced to a flat
row-major vector of grayscale intensities.
*/
type Sample struct {
	Pixels []uint8 // length Features, row-major
	Label  int     // 0 - negative, 1 - positive
}

/*
Dataset is an ordered collection of samples as loaded from disk.
It's built once per run and not mutated afterwards.
*/
type Dataset []Sample

/*
Matrix copies the dataset into a dense feature matrix,
one row per sample in dataset order.
*/
func (d Dataset) Matrix() *mat.Dense {
	if len(d) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(d), len(d[0].Pixels), nil)
	for i, s := range d {
		row := m.RawRowView(i)
		for j, p := range s.Pixels {
			row[j] = float64(p)
		}
	}
	return m
}

/*
Labels returns the label column as floats, one value per sample.
*/
func (d Dataset) Labels() []float64 {
	r := make([]float64, len(d))
	for i, s := range d {
		r[i] = float64(s.Label)
	}
	return r
}
