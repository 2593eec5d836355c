/*
Package scale implements per-feature standardization fitted on the
training subset only and replayable at inference time from a persisted
artifact.
*/
package scale

import (
	"encoding/json"
	"io"
	"math"

	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

/*
StandardScaler centers every feature column by its mean and scales it
by its standard deviation. The deviation is the sample (n-1) one, the
stat.MeanStdDev convention. Zero-variance columns keep divisor 1 so
constant features (uniformly black image borders) come out centered
but never NaN/Inf.
*/
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

/*
Fit computes column statistics of x. It must only ever see the
training subset, fitting on data later used for evaluation leaks
test statistics into the transform.
*/
func (s *StandardScaler) Fit(x *mat.Dense) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return zorros.Errorf("can't fit scaler on empty %vx%v matrix", r, c)
	}
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		m, d := stat.MeanStdDev(col, nil)
		if d == 0 || math.IsNaN(d) {
			d = 1 // zero-variance guard
		}
		s.Mean[j] = m
		s.Std[j] = d
	}
	return nil
}

/*
Transform standardizes x in place with the fitted statistics.
*/
func (s *StandardScaler) Transform(x *mat.Dense) error {
	r, c := x.Dims()
	if len(s.Mean) == 0 {
		return zorros.Errorf("scaler is not fitted")
	}
	if c != len(s.Mean) {
		return zorros.Errorf("scaler was fitted on %v features, got %v", len(s.Mean), c)
	}
	for i := 0; i < r; i++ {
		row := x.RawRowView(i)
		for j := range row {
			row[j] = (row[j] - s.Mean[j]) / s.Std[j]
		}
	}
	return nil
}

/*
FitTransform fits on x and standardizes it in place.
*/
func (s *StandardScaler) FitTransform(x *mat.Dense) error {
	if err := s.Fit(x); err != nil {
		return err
	}
	return s.Transform(x)
}

// encode writes the scaler artifact, an xz-compressed json of the
// mean/std vectors.
func (s *StandardScaler) encode(w io.Writer) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return zorros.Trace(err)
	}
	if err = json.NewEncoder(zw).Encode(s); err != nil {
		return zorros.Trace(err)
	}
	return zw.Close()
}

/*
Save persists the scaler artifact to an output.
*/
func (s *StandardScaler) Save(o iokit.Output) (err error) {
	wh, err := o.Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	if err = s.encode(wh); err != nil {
		return
	}
	return wh.Commit()
}

/*
Load reads back a scaler artifact written by Save.
*/
func Load(r io.Reader) (*StandardScaler, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	s := &StandardScaler{}
	if err = json.NewDecoder(zr).Decode(s); err != nil {
		return nil, zorros.Trace(err)
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Std) {
		return nil, zorros.Errorf("damaged scaler artifact")
	}
	return s, nil
}
