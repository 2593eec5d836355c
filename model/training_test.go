package model_test

import (
	"testing"

	"github.com/mriscan/mriclass/model"
	"gotest.tools/assert"
)

func emit(u model.MetricsUpdater, wrong, total int) {
	for i := 0; i < total; i++ {
		if i < wrong {
			u.Update(0, 1)
		} else {
			u.Update(1, 1)
		}
	}
}

// fakeModel reports a fixed test error per iteration and snapshots the
// iteration number as its payload.
func fakeModel(wrongs []int) model.FatModel {
	return func(w model.Workout) (*model.Report, error) {
		for {
			i := w.Iteration()
			upd := w.TrainMetrics()
			emit(upd, 2, 20)
			tupd := w.TestMetrics()
			emit(tupd, wrongs[i], 20)
			rep, done, err := w.Complete([]byte{byte(i)}, upd.Complete(), tupd.Complete(), false)
			if err != nil || done {
				return rep, err
			}
			w = w.Next()
		}
	}
}

func Test_EarlyStop(t *testing.T) {
	lines := 0
	report, err := fakeModel([]int{10, 8, 6, 9, 10, 11, 12, 13, 14, 15}).
		Train(model.Training{
			Iterations: 10,
			Score:      model.AccuracyScore,
			Verbose:    func(string) { lines++ },
		})
	assert.NilError(t, err)
	// three iterations without improvement stop the workout
	assert.Assert(t, len(report.History) == 5)
	assert.Assert(t, lines == 5)
	assert.Assert(t, report.TheBest == 2)
	assert.Assert(t, report.Score == 0.7)
	assert.Assert(t, report.Test.Error == 0.3)
	assert.Assert(t, len(report.Model) == 1 && report.Model[0] == 2)
}

func Test_IterationsExhausted(t *testing.T) {
	report, err := fakeModel([]int{10, 8, 6}).
		Train(model.Training{Iterations: 3, Score: model.AccuracyScore})
	assert.NilError(t, err)
	assert.Assert(t, len(report.History) == 3)
	assert.Assert(t, report.TheBest == 2)
	assert.Assert(t, report.Score == 0.7)
	assert.Assert(t, report.Train.Error == 0.1)
}

func Test_MetricsDone(t *testing.T) {
	f := model.FatModel(func(w model.Workout) (*model.Report, error) {
		upd := w.TrainMetrics()
		emit(upd, 0, 10)
		tupd := w.TestMetrics()
		emit(tupd, 1, 10)
		rep, done, err := w.Complete([]byte("final"), upd.Complete(), tupd.Complete(), true)
		assert.Assert(t, done)
		return rep, err
	})
	report, err := f.Train(model.Training{Iterations: 100, Score: model.AccuracyScore})
	assert.NilError(t, err)
	assert.Assert(t, report.TheBest == 0)
	assert.Assert(t, string(report.Model) == "final")
	assert.Assert(t, report.Test.Count == 10)
}

func Test_Classify(t *testing.T) {
	y := model.Classify([]float64{0.1, 0.5, 0.7, 1})
	assert.Assert(t, y[0] == 0 && y[1] == 0 && y[2] == 1 && y[3] == 1)
}

func Test_Params(t *testing.T) {
	p := model.Params{"C": 10}
	assert.Assert(t, p.Get("C", 1) == 10)
	assert.Assert(t, p.Get("Gamma", 0.5) == 0.5)
}
