/*
Package pipeline runs the whole training flow as one linear in-process
call: load the labeled image folder, split it, standardize features on
the training subset only, fit a classifier, evaluate it on the test
subset and persist the model and scaler artifacts.
*/
package pipeline

import (
	"os"
	"path/filepath"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
	"gonum.org/v1/gonum/mat"

	"github.com/mriscan/mriclass/dataset"
	"github.com/mriscan/mriclass/eval"
	"github.com/mriscan/mriclass/fu"
	"github.com/mriscan/mriclass/model"
	"github.com/mriscan/mriclass/rnn"
	"github.com/mriscan/mriclass/scale"
	"github.com/mriscan/mriclass/svm"
)

/*
Config drives a single run. Zero fields take the reference defaults.
*/
type Config struct {
	DataDir  string  // root with `no` and `yes` image subdirectories
	TestSize float64 // evaluation fraction, default 0.25
	Seed     int64   // split/shuffle seed, default 90
	Workers  int     // parallel image decoders, 0 or 1 - sequential

	Epochs     int     // rnn training passes, default 100
	Batch      int     // rnn minibatch size, default 32
	Validation float64 // rnn validation slice of the training subset, default 0.2
	Hidden     int     // rnn hidden width, default 64
	Rate       float64 // rnn learning rate

	C     float64 // svm box constraint
	Gamma float64 // svm rbf kernel width

	ModelFile  string // fitted model artifact, default under the model cache
	ScalerFile string // fitted scaler artifact, default under the model cache
	PlotDir    string // when set, the evaluation plot battery is written here
	HistoryDB  string // when set, run metrics are recorded to this sqlite db

	// UseDecisionScores switches the svm roc/pr input from hard 0/1
	// predictions to continuous decision margins. Off keeps the
	// reference behavior, a degenerate single-working-point curve.
	UseDecisionScores bool

	Verbose func(string)
}

func (c Config) config(defaultModel string) Config {
	c.TestSize = fu.Fnzd(c.TestSize, 0.25)
	if c.Seed == 0 {
		c.Seed = 90
	}
	c.Epochs = fu.Fnzi(c.Epochs, 100)
	c.Batch = fu.Fnzi(c.Batch, 32)
	c.Validation = fu.Fnzd(c.Validation, 0.2)
	if c.ModelFile == "" {
		c.ModelFile = fu.ModelPath(defaultModel)
	}
	if c.ScalerFile == "" {
		c.ScalerFile = fu.ModelPath("mri-scaler.xz")
	}
	return c
}

/*
Result is the evaluation of one finished run on its test subset
*/
type Result struct {
	TrainSamples  int
	TestSamples   int
	Report        *model.Report // training report, best iteration metrics
	Metrics       eval.ClassReport
	Confusion     [2][2]int
	AUC           float64
	Misclassified []int // test subset indices where prediction != truth
	YTrue         []float64
	YPred         []float64
	Scores        []float64
}

/*
RunRNN trains and evaluates the recurrent variant. The flat feature
rows are reinterpreted as 64 steps of 64 values, a validation slice of
the training subset drives early stopping over the training passes.
*/
func RunRNN(c Config) (*Result, error) {
	c = c.config("mri-rnn.xz")
	trainDS, testDS, scaler, err := prepare(c)
	if err != nil {
		return nil, err
	}
	fitDS, valDS, err := trainDS.Split(c.Validation, c.Seed)
	if err != nil {
		return nil, zorros.Wrapf(err, "can't slice validation subset: %v", err.Error())
	}
	fitX, valX, testX := fitDS.Matrix(), valDS.Matrix(), testDS.Matrix()
	for _, x := range []*mat.Dense{fitX, valX, testX} {
		if err = scaler.Transform(x); err != nil {
			return nil, err
		}
	}
	m := rnn.Model{Hidden: c.Hidden, Batch: c.Batch, Rate: c.Rate, Seed: c.Seed}
	report, err := m.
		Feed(model.FeatureSet{X: fitX, Y: fitDS.Labels()},
			model.FeatureSet{X: valX, Y: valDS.Labels()}).
		Train(model.Training{
			Iterations: c.Epochs,
			Score:      model.AccuracyScore,
			ModelFile:  iokit.File(c.ModelFile),
			Verbose:    c.Verbose,
		})
	if err != nil {
		return nil, err
	}
	payload, err := model.ReadArtifact(c.ModelFile)
	if err != nil {
		return nil, err
	}
	net, err := rnn.Deserialize(payload)
	if err != nil {
		return nil, err
	}
	scores, err := net.Predict(testX)
	if err != nil {
		return nil, err
	}
	return finish(c, "rnn", len(trainDS), testDS, scaler, report, model.Classify(scores), scores)
}

/*
RunSVM trains and evaluates the support-vector variant on the flat
features. The reference configuration evaluates ROC/PR from the hard
predictions unless UseDecisionScores is set.
*/
func RunSVM(c Config) (*Result, error) {
	c = c.config("mri-svm.xz")
	trainDS, testDS, scaler, err := prepare(c)
	if err != nil {
		return nil, err
	}
	trainX, testX := trainDS.Matrix(), testDS.Matrix()
	for _, x := range []*mat.Dense{trainX, testX} {
		if err = scaler.Transform(x); err != nil {
			return nil, err
		}
	}
	train := model.FeatureSet{X: trainX, Y: trainDS.Labels()}
	m := svm.Model{C: c.C, Gamma: c.Gamma, Seed: c.Seed}
	report, err := m.
		Feed(train, train).
		Train(model.Training{
			Iterations: 1,
			Score:      model.AccuracyScore,
			ModelFile:  iokit.File(c.ModelFile),
			Verbose:    c.Verbose,
		})
	if err != nil {
		return nil, err
	}
	payload, err := model.ReadArtifact(c.ModelFile)
	if err != nil {
		return nil, err
	}
	clf, err := svm.Deserialize(payload)
	if err != nil {
		return nil, err
	}
	preds, err := clf.Predict(testX)
	if err != nil {
		return nil, err
	}
	scores := preds
	if c.UseDecisionScores {
		if scores, err = clf.DecisionFunc(testX); err != nil {
			return nil, err
		}
	}
	return finish(c, "svm", len(trainDS), testDS, scaler, report, preds, scores)
}

// prepare loads the dataset, splits it and fits the scaler on the
// training subset only. The returned subsets are not transformed yet.
func prepare(c Config) (trainDS, testDS dataset.Dataset, scaler *scale.StandardScaler, err error) {
	ds, err := dataset.LoadParallel(c.DataDir, c.Workers)
	if err != nil {
		return
	}
	zlog.Infof("loaded %v samples from %v", len(ds), c.DataDir)
	if trainDS, testDS, err = ds.Split(c.TestSize, c.Seed); err != nil {
		return
	}
	scaler = &scale.StandardScaler{}
	if err = scaler.Fit(trainDS.Matrix()); err != nil {
		return
	}
	return
}

// finish evaluates predictions on the test subset, persists the scaler
// and writes the optional plot/history artifacts.
func finish(c Config, variant string, trainSamples int, testDS dataset.Dataset,
	scaler *scale.StandardScaler, report *model.Report, yPred, scores []float64) (*Result, error) {

	yTrue := testDS.Labels()
	fpr, tpr, auc, err := eval.ROC(yTrue, scores)
	if err != nil {
		return nil, err
	}
	r := &Result{
		TrainSamples:  trainSamples,
		TestSamples:   len(testDS),
		Report:        report,
		Metrics:       eval.Report(yTrue, yPred),
		Confusion:     eval.Confusion(yTrue, yPred),
		AUC:           auc,
		Misclassified: eval.Misclassified(yTrue, yPred),
		YTrue:         yTrue,
		YPred:         yPred,
		Scores:        scores,
	}
	if err = scaler.Save(iokit.File(c.ScalerFile)); err != nil {
		return nil, err
	}
	if c.PlotDir != "" {
		if err = writePlots(c, r, fpr, tpr, testDS); err != nil {
			return nil, err
		}
	}
	if c.HistoryDB != "" {
		if err = record(c, variant, r); err != nil {
			return nil, err
		}
	}
	zlog.Infof("%v run done: accuracy %.3f, auc %.3f, %v of %v test samples misclassified",
		variant, r.Metrics.Accuracy, auc, len(r.Misclassified), len(testDS))
	return r, nil
}

func writePlots(c Config, r *Result, fpr, tpr []float64, testDS dataset.Dataset) error {
	if err := os.MkdirAll(c.PlotDir, 0755); err != nil {
		return zorros.Trace(err)
	}
	if err := eval.SaveROCPlot(fpr, tpr, r.AUC, filepath.Join(c.PlotDir, "roc.png")); err != nil {
		return err
	}
	recall, precision, err := eval.PR(r.YTrue, r.Scores)
	if err != nil {
		return err
	}
	if err = eval.SavePRPlot(recall, precision, filepath.Join(c.PlotDir, "pr.png")); err != nil {
		return err
	}
	if err = eval.SaveConfusionPlot(r.Confusion, filepath.Join(c.PlotDir, "confusion.png")); err != nil {
		return err
	}
	return eval.SaveMisclassified(testDS, r.Misclassified, r.YPred, filepath.Join(c.PlotDir, "misclassified"))
}

func record(c Config, variant string, r *Result) error {
	h, err := eval.OpenHistory(c.HistoryDB)
	if err != nil {
		return err
	}
	defer h.Close()
	run, err := h.Begin(variant, r.TrainSamples, r.TestSamples)
	if err != nil {
		return err
	}
	for _, it := range r.Report.History {
		if err = h.Epoch(run, it[0], it[1], model.AccuracyScore(it[0], it[1])); err != nil {
			return err
		}
	}
	return h.Finish(run, r.Metrics.Accuracy, r.AUC)
}
