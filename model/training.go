package model

import (
	"fmt"

	"github.com/mriscan/mriclass/fu"
	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
)

/*
Training is the default implementation of unified training interface
*/
type Training struct {
	Iterations   int          // maximum iterations
	Score        Score        // score function
	ScoreHistory int          // possible count of forehead training with lower score
	ModelFile    iokit.Output // file to store final model
	Verbose      func(string) // print function
}

type training struct {
	Training
	stash *snapshotStash
	done  bool
}

type workout struct {
	iteration int
	training  *training
	perflog   [][2]Summary
	scorlog   []float64
}

const DefaultScoreHistory = 3

func (t Training) Workout() Workout {
	x := &training{
		Training: t,
		stash:    newStash(fu.Fnzi(t.ScoreHistory, DefaultScoreHistory) + 1),
	}
	return &workout{iteration: 0, training: x}
}

func (w *workout) Iteration() int {
	return w.iteration
}

func (w *workout) TrainMetrics() MetricsUpdater {
	return NewMetrics(w.iteration, TrainSubset)
}

func (w *workout) TestMetrics() MetricsUpdater {
	return NewMetrics(w.iteration, TestSubset)
}

func (w *workout) report(j int) (report *Report, err error) {
	report = &Report{}
	histlen := fu.Fnzi(w.training.ScoreHistory, DefaultScoreHistory)
	if len(w.perflog) > 0 {
		report.History = append([][2]Summary{}, w.perflog...)
		if j == 0 {
			l := fu.Mini(len(w.scorlog), histlen)
			lj := len(w.scorlog) - l
			j = fu.Indmaxd(w.scorlog[lj:]) + lj
		}
		report.TheBest = j
		report.Train = w.perflog[j][0]
		report.Test = w.perflog[j][1]
		report.Score = w.scorlog[j]
		report.Model = w.training.stash.snapshot(j)
		if w.training.ModelFile != nil {
			if err = flushArtifact(w.training.ModelFile, report.Model); err != nil {
				return
			}
		}
	}
	return
}

func (w *workout) Complete(snapshot []byte, train, test Summary, metricsDone bool) (report *Report, done bool, err error) {
	histlen := fu.Fnzi(w.training.ScoreHistory, DefaultScoreHistory)
	maxiter := fu.Maxi(w.training.Iterations, 1)
	score := w.training.Score(train, test)
	w.scorlog = append(w.scorlog, score)
	w.perflog = append(w.perflog, [2]Summary{train, test})
	w.training.stash.put(w.iteration, snapshot)
	if metricsDone {
		w.training.done = true
		done = true
		report, err = w.report(w.iteration)
	} else if w.iteration == maxiter-1 || (w.iteration > histlen && fu.Indmaxd(w.scorlog[len(w.scorlog)-histlen:]) == 0) {
		w.training.done = true
		done = true
		report, err = w.report(0)
	}
	if w.training.Verbose != nil {
		w.Verbose(fmt.Sprintf(
			"[%3d] loss: %.5f/%.5f, error: %.5f/%.5f, score: %.5f",
			w.Iteration(), train.Loss, test.Loss, train.Error, test.Error, score))
	}
	return
}

func (w *workout) Verbose(s string) {
	if w.training.Verbose != nil {
		w.training.Verbose(s)
	}
}

func (w *workout) Next() Workout {
	if w.training.done {
		zlog.Warning("training is already done")
		return nil
	}
	return &workout{
		iteration: w.iteration + 1,
		training:  w.training,
		scorlog:   w.scorlog,
		perflog:   w.perflog,
	}
}

/*
Report is an ML training report
*/
type Report struct {
	History     [][2]Summary // all iterations history
	TheBest     int          // the best iteration
	Train, Test Summary      // the best iteration metrics
	Score       float64      // the best score
	Model       []byte       // the best iteration model snapshot
}

// snapshotStash keeps serialized models of the last few iterations so
// the best one within the early-stop window can be flushed to the
// model file.
type snapshotStash struct {
	depth int
	iters []int
	snaps map[int][]byte
}

func newStash(depth int) *snapshotStash {
	return &snapshotStash{depth: depth, snaps: map[int][]byte{}}
}

func (s *snapshotStash) put(iteration int, snapshot []byte) {
	s.snaps[iteration] = snapshot
	s.iters = append(s.iters, iteration)
	if len(s.iters) > s.depth {
		delete(s.snaps, s.iters[0])
		s.iters = s.iters[1:]
	}
}

func (s *snapshotStash) snapshot(iteration int) []byte {
	return s.snaps[iteration]
}

func flushArtifact(o iokit.Output, payload []byte) (err error) {
	wh, err := o.Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	zw, err := xz.NewWriter(wh)
	if err != nil {
		return zorros.Trace(err)
	}
	if _, err = zw.Write(payload); err != nil {
		return zorros.Trace(err)
	}
	if err = zw.Close(); err != nil {
		return zorros.Trace(err)
	}
	return wh.Commit()
}
