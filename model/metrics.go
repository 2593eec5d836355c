package model

/*
Subset marks which side of the train/test split a metric belongs to
*/
type Subset int

const (
	TrainSubset Subset = iota
	TestSubset
)

func (s Subset) String() string {
	if s == TrainSubset {
		return "train"
	}
	return "test"
}

/*
Summary is the evaluation of one subset at one training iteration
*/
type Summary struct {
	Iteration int
	Subset    Subset
	Loss      float64 // mean squared score/label deviation
	Error     float64 // misclassification rate at threshold 0.5
	Count     int
}

/*
Accuracy of the summarized subset
*/
func (s Summary) Accuracy() float64 {
	return 1 - s.Error
}

/*
MetricsUpdater accumulates per-sample scores into a Summary
*/
type MetricsUpdater interface {
	Update(score, label float64)
	Complete() Summary
}

type metricsUpdater struct {
	iteration int
	subset    Subset
	loss      float64
	wrong     int
	count     int
}

/*
NewMetrics returns an updater collecting binary classification metrics
*/
func NewMetrics(iteration int, subset Subset) MetricsUpdater {
	return &metricsUpdater{iteration: iteration, subset: subset}
}

func (m *metricsUpdater) Update(score, label float64) {
	d := score - label
	m.loss += d * d
	if (score > 0.5) != (label > 0.5) {
		m.wrong++
	}
	m.count++
}

func (m *metricsUpdater) Complete() Summary {
	s := Summary{Iteration: m.iteration, Subset: m.subset, Count: m.count}
	if m.count > 0 {
		s.Loss = m.loss / float64(m.count)
		s.Error = float64(m.wrong) / float64(m.count)
	}
	return s
}

/*
Score function scores train/test iteration metrics, the bigger is better
*/
type Score func(train, test Summary) float64

/*
AccuracyScore scores a workout by the test subset accuracy
*/
func AccuracyScore(train, test Summary) float64 {
	return test.Accuracy()
}
