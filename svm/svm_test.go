package svm

import (
	"math/rand"
	"testing"

	"github.com/mriscan/mriclass/model"
	"github.com/mriscan/mriclass/model/tune"
	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
)

// blobs builds two well-separated 2d clusters around (-2,-2) and (2,2).
func blobs(n int, seed int64) (*mat.Dense, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		center := -2.0
		if i%2 == 1 {
			center = 2.0
			y[i] = 1
		}
		x.Set(i, 0, center+rnd.NormFloat64()*0.3)
		x.Set(i, 1, center+rnd.NormFloat64()*0.3)
	}
	return x, y
}

func Test_FitSeparable(t *testing.T) {
	x, y := blobs(30, 1)
	clf, err := Model{C: 1, Gamma: 0.5, Seed: 7}.Fit(x, y)
	assert.NilError(t, err)
	assert.Assert(t, len(clf.SV) > 0)
	preds, err := clf.Predict(x)
	assert.NilError(t, err)
	for i := range preds {
		assert.Assert(t, preds[i] == y[i])
	}
	margins, err := clf.DecisionFunc(x)
	assert.NilError(t, err)
	for i := range margins {
		// hard predictions are the margin sign
		assert.Assert(t, (margins[i] > 0) == (preds[i] == 1))
	}
}

func Test_FeedWorkout(t *testing.T) {
	x, y := blobs(20, 2)
	set := model.FeatureSet{X: x, Y: y}
	report, err := Model{C: 1, Gamma: 0.5, Seed: 3}.
		Feed(set, set).
		Train(model.Training{Iterations: 1, Score: model.AccuracyScore})
	assert.NilError(t, err)
	assert.Assert(t, report.TheBest == 0)
	assert.Assert(t, report.Train.Count == 20)
	assert.Assert(t, report.Test.Error == 0)
	clf, err := Deserialize(report.Model)
	assert.NilError(t, err)
	preds, err := clf.Predict(x)
	assert.NilError(t, err)
	for i := range preds {
		assert.Assert(t, preds[i] == y[i])
	}
}

func Test_SerializeRoundtrip(t *testing.T) {
	x, y := blobs(16, 4)
	clf, err := Model{Gamma: 0.5}.Fit(x, y)
	assert.NilError(t, err)
	back, err := Deserialize(clf.Serialize())
	assert.NilError(t, err)
	a, err := clf.DecisionFunc(x)
	assert.NilError(t, err)
	b, err := back.DecisionFunc(x)
	assert.NilError(t, err)
	for i := range a {
		assert.Assert(t, a[i] == b[i])
	}
}

func Test_FitErrors(t *testing.T) {
	_, err := Model{}.Fit(&mat.Dense{}, nil)
	assert.Assert(t, err != nil)
	_, err = Model{}.Fit(mat.NewDense(3, 2, nil), []float64{1})
	assert.Assert(t, err != nil)
	_, err = Model{}.Fit(mat.NewDense(1, 2, []float64{1, 2}), []float64{1})
	assert.Assert(t, err != nil)
}

func Test_PredictMismatch(t *testing.T) {
	x, y := blobs(10, 5)
	clf, err := Model{Gamma: 0.5}.Fit(x, y)
	assert.NilError(t, err)
	_, err = clf.Predict(mat.NewDense(1, 3, nil))
	assert.Assert(t, err != nil)
}

func Test_SearchOverParams(t *testing.T) {
	x, y := blobs(30, 3)
	set := model.FeatureSet{X: x, Y: y}
	r, err := tune.Space{
		Train:      set,
		Validation: set,
		Seed:       11,
		Trials:     8,
		ModelFunc:  func(p model.Params) model.HungryModel { return New(p) },
		// gamma 0 falls back to the 1/features default inside Fit
		Variance: tune.Variance{"C": tune.LogRange{0.1, 10}, "Gamma": tune.List{0, 0.5}},
	}.RandomSearch()
	assert.NilError(t, err)
	assert.Assert(t, r.Score > 0.9)
	assert.Assert(t, r.Params["C"] >= 0.1 && r.Params["C"] <= 10)
	assert.Assert(t, r.Training != nil)
	assert.Assert(t, New(model.Params{"C": 3}).C == 3)
}
