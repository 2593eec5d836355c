package dataset

import (
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
Sequences reinterprets every row of a flat feature matrix as an ordered
sequence of steps rows of width values each (row-major, step i of an
image row is the i-th pixel row). It's a pure relabeling sharing the
matrix memory, no value is changed or copied.
*/
func Sequences(m *mat.Dense, steps, width int) ([][][]float64, error) {
	r, c := m.Dims()
	if steps < 1 || width < 1 || c != steps*width {
		return nil, zorros.Errorf("can't reshape %v features into %vx%v sequence", c, steps, width)
	}
	seqs := make([][][]float64, r)
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		seq := make([][]float64, steps)
		for s := 0; s < steps; s++ {
			seq[s] = row[s*width : (s+1)*width]
		}
		seqs[i] = seq
	}
	return seqs, nil
}
