/*
Package tune implements seeded random search over model
hyper-parameters scored on a held-out validation subset.
*/
package tune

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/mriscan/mriclass/fu"
	"github.com/mriscan/mriclass/model"
	"go-ml.dev/pkg/zorros"
)

/*
Range is a open float range specified by min and max values (min,max)
*/
type Range [2]float64

/*
LogRange is a open float logarithmic range specified by min and max values (min,max)
*/
type LogRange [2]float64

/*
IntRange is a close integer range specified by min and max values [min,max]
*/
type IntRange [2]int

/*
List is a list of possible parameter values
*/
type List []float64

/*
Value is a single value parameter
*/
type Value float64

// type limitation interface
type distribution interface {
	sample(*rand.Rand) float64
}

func (r Range) sample(rnd *rand.Rand) float64 {
	return r[0] + rnd.Float64()*(r[1]-r[0])
}

func (r LogRange) sample(rnd *rand.Rand) float64 {
	return math.Exp(math.Log(r[0]) + rnd.Float64()*(math.Log(r[1])-math.Log(r[0])))
}

func (r IntRange) sample(rnd *rand.Rand) float64 {
	return float64(r[0] + rnd.Intn(r[1]-r[0]+1))
}

func (l List) sample(rnd *rand.Rand) float64 {
	return l[rnd.Intn(len(l))]
}

func (v Value) sample(*rand.Rand) float64 {
	return float64(v)
}

/*
Variance is a space of hyper-parameters used by the search
*/
type Variance map[string]distribution

/*
Space is a definition of hyper-parameters optimization space
*/
type Space struct {
	Train      model.FeatureSet // subset to fit trial models on
	Validation model.FeatureSet // subset to score trial models on
	Seed       int64            // random seed
	Trials     int              // count of sampled parameter sets
	Iterations int              // model fitting iterations per trial
	Score      model.Score      // function to calculate score of train/test metrics
	Verbose    func(string)

	// the model generation function
	ModelFunc func(model.Params) model.HungryModel

	// hyper-parameters variance
	Variance Variance
}

/*
Report is a result of hyper-parameters optimization
*/
type Report struct {
	model.Params
	Score    float64
	Training *model.Report // training report of the best trial
}

/*
RandomSearch samples parameter sets from the variance and returns the
best scoring trial
*/
func (s Space) RandomSearch() (*Report, error) {
	if s.ModelFunc == nil {
		return nil, zorros.Errorf("hyper-parameters space requires ModelFunc")
	}
	if len(s.Variance) == 0 {
		return nil, zorros.Errorf("hyper-parameters space has no variance")
	}
	score := s.Score
	if score == nil {
		score = model.AccuracyScore
	}
	trials := fu.Fnzi(s.Trials, 10)
	rnd := rand.New(rand.NewSource(s.Seed))
	best := &Report{Score: math.Inf(-1)}
	names := make([]string, 0, len(s.Variance))
	for k := range s.Variance {
		names = append(names, k)
	}
	sort.Strings(names) // keep sampling deterministic for a seed
	for t := 0; t < trials; t++ {
		params := model.Params{}
		for _, k := range names {
			params[k] = s.Variance[k].sample(rnd)
		}
		rep, err := s.ModelFunc(params).
			Feed(s.Train, s.Validation).
			Train(model.Training{
				Iterations: fu.Fnzi(s.Iterations, 1),
				Score:      score,
			})
		if err != nil {
			return nil, zorros.Wrapf(err, "trial %v failed: %v", t, err.Error())
		}
		if s.Verbose != nil {
			s.Verbose(fmt.Sprintf("trial %2d: score %.5f params %v", t, rep.Score, params))
		}
		if rep.Score > best.Score {
			best = &Report{Params: params, Score: rep.Score, Training: rep}
		}
	}
	return best, nil
}
