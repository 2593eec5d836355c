/*
Package svm implements a binary support-vector classifier with a
radial-basis kernel fitted by sequential minimal optimization.
*/
package svm

import (
	"math"
	"math/rand"

	"github.com/mriscan/mriclass/fu"
	"github.com/mriscan/mriclass/model"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
Model is the hungry form of the classifier. Zero fields take defaults.
*/
type Model struct {
	C       float64 // box constraint, default 1
	Gamma   float64 // rbf kernel width, default 1/features
	Tol     float64 // kkt tolerance, default 1e-3
	Passes  int     // quiet passes to stop after, default 5
	MaxIter int     // hard sweep limit, default 1000
	Seed    int64
}

func (e Model) config(features int) Model {
	e.C = fu.Fnzd(e.C, 1)
	e.Gamma = fu.Fnzd(e.Gamma, 1/float64(features))
	e.Tol = fu.Fnzd(e.Tol, 1e-3)
	e.Passes = fu.Fnzi(e.Passes, 5)
	e.MaxIter = fu.Fnzi(e.MaxIter, 1000)
	return e
}

/*
New creates a Model from named hyper-parameters
*/
func New(p model.Params) Model {
	return Model{
		C:     p.Get("C", 1),
		Gamma: p.Get("Gamma", 0),
		Seed:  int64(p.Get("Seed", 0)),
	}
}

/*
Feed binds the model to a training and a validation subset. The SMO
solver runs to convergence within a single workout iteration.
*/
func (e Model) Feed(train, validation model.FeatureSet) model.FatModel {
	return func(workout model.Workout) (*model.Report, error) {
		c, err := e.Fit(train.X, train.Y)
		if err != nil {
			return nil, err
		}
		upd := workout.TrainMetrics()
		if err = c.update(upd, train); err != nil {
			return nil, err
		}
		tupd := workout.TestMetrics()
		if err = c.update(tupd, validation); err != nil {
			return nil, err
		}
		report, _, err := workout.Complete(c.Serialize(), upd.Complete(), tupd.Complete(), true)
		return report, err
	}
}

func (c *Classifier) update(upd model.MetricsUpdater, set model.FeatureSet) error {
	if set.Len() == 0 {
		return nil
	}
	scores, err := c.Predict(set.X)
	if err != nil {
		return err
	}
	for i, s := range scores {
		upd.Update(s, set.Y[i])
	}
	return nil
}

/*
Fit trains the classifier on a feature matrix with binary 0/1 labels
*/
func (e Model) Fit(x *mat.Dense, labels []float64) (*Classifier, error) {
	n, features := x.Dims()
	// the solver pairs every multiplier with a second one
	if n < 2 {
		return nil, zorros.Errorf("can't fit svm on %v samples", n)
	}
	if n != len(labels) {
		return nil, zorros.Errorf("got %v rows and %v labels", n, len(labels))
	}
	e = e.config(features)
	y := make([]float64, n) // labels remapped to {-1,+1}
	for i, l := range labels {
		y[i] = -1
		if l > 0.5 {
			y[i] = 1
		}
	}
	s := &solver{Model: e, x: x, y: y,
		alpha: make([]float64, n),
		norm:  make([]float64, n),
		rnd:   rand.New(rand.NewSource(e.Seed)),
	}
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		s.norm[i] = floats.Dot(row, row)
	}
	s.run()
	c := &Classifier{Gamma: e.Gamma, B: s.b}
	for i, a := range s.alpha {
		if a > 1e-8 {
			c.Coef = append(c.Coef, a*y[i])
			c.SV = append(c.SV, append([]float64{}, x.RawRowView(i)...))
		}
	}
	return c, nil
}

type solver struct {
	Model
	x     *mat.Dense
	y     []float64
	alpha []float64
	norm  []float64
	b     float64
	rnd   *rand.Rand
}

func (s *solver) kernel(i, j int) float64 {
	d := s.norm[i] + s.norm[j] - 2*floats.Dot(s.x.RawRowView(i), s.x.RawRowView(j))
	return math.Exp(-s.Gamma * d)
}

func (s *solver) decision(i int) float64 {
	f := s.b
	for k, a := range s.alpha {
		if a > 0 {
			f += a * s.y[k] * s.kernel(k, i)
		}
	}
	return f
}

// run is the simplified SMO main loop: sweep all multipliers, pick a
// random second one for every KKT violator, stop after Passes quiet
// sweeps.
func (s *solver) run() {
	n := len(s.y)
	quiet := 0
	for iter := 0; quiet < s.Passes && iter < s.MaxIter; iter++ {
		changed := 0
		for i := 0; i < n; i++ {
			ei := s.decision(i) - s.y[i]
			if !((s.y[i]*ei < -s.Tol && s.alpha[i] < s.C) || (s.y[i]*ei > s.Tol && s.alpha[i] > 0)) {
				continue
			}
			j := s.rnd.Intn(n - 1)
			if j >= i {
				j++
			}
			if s.step(i, j, ei) {
				changed++
			}
		}
		if changed == 0 {
			quiet++
		} else {
			quiet = 0
		}
	}
}

func (s *solver) step(i, j int, ei float64) bool {
	ej := s.decision(j) - s.y[j]
	ai, aj := s.alpha[i], s.alpha[j]
	var lo, hi float64
	if s.y[i] != s.y[j] {
		lo = math.Max(0, aj-ai)
		hi = math.Min(s.C, s.C+aj-ai)
	} else {
		lo = math.Max(0, ai+aj-s.C)
		hi = math.Min(s.C, ai+aj)
	}
	if lo == hi {
		return false
	}
	kii, kjj, kij := s.kernel(i, i), s.kernel(j, j), s.kernel(i, j)
	eta := 2*kij - kii - kjj
	if eta >= 0 {
		return false
	}
	a2 := aj - s.y[j]*(ei-ej)/eta
	a2 = math.Max(lo, math.Min(hi, a2))
	if math.Abs(a2-aj) < 1e-5 {
		return false
	}
	a1 := ai + s.y[i]*s.y[j]*(aj-a2)
	b1 := s.b - ei - s.y[i]*(a1-ai)*kii - s.y[j]*(a2-aj)*kij
	b2 := s.b - ej - s.y[i]*(a1-ai)*kij - s.y[j]*(a2-aj)*kjj
	switch {
	case a1 > 0 && a1 < s.C:
		s.b = b1
	case a2 > 0 && a2 < s.C:
		s.b = b2
	default:
		s.b = (b1 + b2) / 2
	}
	s.alpha[i], s.alpha[j] = a1, a2
	return true
}

/*
Classifier is a fitted support-vector machine keeping only the
support vectors with their signed multipliers.
*/
type Classifier struct {
	Gamma float64     `json:"gamma"`
	B     float64     `json:"b"`
	Coef  []float64   `json:"coef"` // alpha*y per support vector
	SV    [][]float64 `json:"sv"`
}

/*
DecisionFunc returns the continuous margin of every row of x
*/
func (c *Classifier) DecisionFunc(x *mat.Dense) ([]float64, error) {
	n, features := x.Dims()
	if len(c.SV) == 0 {
		return nil, zorros.Errorf("classifier has no support vectors")
	}
	if features != len(c.SV[0]) {
		return nil, zorros.Errorf("classifier was fitted on %v features, got %v", len(c.SV[0]), features)
	}
	r := make([]float64, n)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		f := c.B
		for k, sv := range c.SV {
			d := 0.0
			for q, v := range sv {
				t := v - row[q]
				d += t * t
			}
			f += c.Coef[k] * math.Exp(-c.Gamma*d)
		}
		r[i] = f
	}
	return r, nil
}

/*
Predict returns hard 0/1 labels for every row of x
*/
func (c *Classifier) Predict(x *mat.Dense) ([]float64, error) {
	f, err := c.DecisionFunc(x)
	if err != nil {
		return nil, err
	}
	for i := range f {
		if f[i] > 0 {
			f[i] = 1
		} else {
			f[i] = 0
		}
	}
	return f, nil
}
