package model

import (
	"io"

	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
FeatureSet binds a prepared feature matrix to its label vector.
*/
type FeatureSet struct {
	X *mat.Dense // rows are samples
	Y []float64  // binary labels, one per row
}

/*
Len returns the count of samples in the set
*/
func (f FeatureSet) Len() int {
	if f.X == nil {
		return 0
	}
	r, _ := f.X.Dims()
	return r
}

/*
HungryModel is an ML algorithm grows from a data to predict something
Needs to be fattened by Feed method to fit.
*/
type HungryModel interface {
	Feed(train, validation FeatureSet) FatModel
}

/*
FatModel is fattened model (a training function of model instance bounded to a dataset)
*/
type FatModel func(workout Workout) (*Report, error)

/*
Train a fattened (Fat) model
*/
func (f FatModel) Train(training UnifiedTraining) (*Report, error) {
	w := training.Workout()
	if c, ok := w.(io.Closer); ok {
		defer c.Close()
	}
	return f(w)
}

/*
LuckyTrain trains fattened (Fat) model and trows any occurred errors as a panic
*/
func (f FatModel) LuckyTrain(training UnifiedTraining) *Report {
	m, err := f.Train(training)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return m
}

/*
UnifiedTraining is an interface allowing to write any logging/staging backend for ML training
*/
type UnifiedTraining interface {
	// Workout returns the first iteration workout
	Workout() Workout
}

/*
Workout is a training iteration abstraction
*/
type Workout interface {
	Iteration() int
	TrainMetrics() MetricsUpdater
	TestMetrics() MetricsUpdater
	Complete(snapshot []byte, train, test Summary, metricsDone bool) (*Report, bool, error)
	Next() Workout
	Verbose(string)
}

/*
Predictor is a fitted model able to score a feature matrix.
Scores are probabilities for models estimating them and hard 0/1
labels otherwise.
*/
type Predictor interface {
	Predict(x *mat.Dense) ([]float64, error)
}

/*
Classify thresholds scores into hard 0/1 labels
*/
func Classify(scores []float64) []float64 {
	r := make([]float64, len(scores))
	for i, s := range scores {
		if s > 0.5 {
			r[i] = 1
		}
	}
	return r
}

/*
Params is a set of model hyper-parameters addressed by name
*/
type Params map[string]float64

/*
Get value of the parameter by name if exists and dflt value otherwise
*/
func (p Params) Get(name string, dflt float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return dflt
}
