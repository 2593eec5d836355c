package tune

import (
	"math"
	"testing"

	"github.com/mriscan/mriclass/model"
	"gotest.tools/assert"
)

// peaked is a stub model whose test error grows with the distance of
// the `X` parameter from 0.7.
type peaked struct {
	x float64
}

func (s peaked) Feed(train, validation model.FeatureSet) model.FatModel {
	return func(w model.Workout) (*model.Report, error) {
		wrong := int(math.Min(1, math.Abs(s.x-0.7)) * 100)
		upd := w.TrainMetrics()
		tupd := w.TestMetrics()
		for i := 0; i < 100; i++ {
			score, label := 1.0, 1.0
			if i < wrong {
				score = 0
			}
			upd.Update(score, label)
			tupd.Update(score, label)
		}
		rep, _, err := w.Complete(nil, upd.Complete(), tupd.Complete(), true)
		return rep, err
	}
}

func search(t *testing.T, seed int64) *Report {
	r, err := Space{
		Seed:   seed,
		Trials: 40,
		ModelFunc: func(p model.Params) model.HungryModel {
			return peaked{x: p.Get("X", 0)}
		},
		Variance: Variance{"X": Range{0, 1}, "C": Value(1)},
	}.RandomSearch()
	assert.NilError(t, err)
	return r
}

func Test_RandomSearch(t *testing.T) {
	r := search(t, 5)
	assert.Assert(t, math.Abs(r.Params["X"]-0.7) < 0.15)
	assert.Assert(t, r.Score > 0.85)
	assert.Assert(t, r.Params["C"] == 1)
	assert.Assert(t, r.Training != nil)
}

func Test_RandomSearchDeterminism(t *testing.T) {
	a, b := search(t, 9), search(t, 9)
	assert.Assert(t, a.Params["X"] == b.Params["X"])
	assert.Assert(t, a.Score == b.Score)
}

func Test_SpaceErrors(t *testing.T) {
	_, err := Space{Variance: Variance{"X": Range{0, 1}}}.RandomSearch()
	assert.Assert(t, err != nil)
	_, err = Space{ModelFunc: func(model.Params) model.HungryModel { return peaked{} }}.RandomSearch()
	assert.Assert(t, err != nil)
}
