package eval

import (
	"math"
	"testing"

	"gotest.tools/assert"
)

func Test_Confusion(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 1}
	yPred := []float64{0, 1, 1, 1, 0}
	cm := Confusion(yTrue, yPred)
	assert.Assert(t, cm[0][0] == 1) // tn
	assert.Assert(t, cm[0][1] == 1) // fp
	assert.Assert(t, cm[1][0] == 1) // fn
	assert.Assert(t, cm[1][1] == 2) // tp
	assert.Assert(t, cm[0][0]+cm[0][1]+cm[1][0]+cm[1][1] == len(yTrue))
}

func Test_Report(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 1}
	yPred := []float64{0, 1, 1, 1, 0}
	r := Report(yTrue, yPred)
	assert.Assert(t, math.Abs(r.Accuracy-0.6) < 1e-12)
	assert.Assert(t, r.Support[0] == 2 && r.Support[1] == 3)
	assert.Assert(t, math.Abs(r.Precision[1]-2.0/3) < 1e-12)
	assert.Assert(t, math.Abs(r.Recall[1]-2.0/3) < 1e-12)
	assert.Assert(t, math.Abs(r.F1[1]-2.0/3) < 1e-12)
	assert.Assert(t, math.Abs(r.Precision[0]-0.5) < 1e-12)
}

func Test_ROCPerfect(t *testing.T) {
	yTrue := []float64{0, 1, 0, 1}
	scores := []float64{0.2, 0.9, 0.1, 0.8}
	fpr, tpr, auc, err := ROC(yTrue, scores)
	assert.NilError(t, err)
	assert.Assert(t, math.Abs(auc-1) < 1e-12)
	assert.Assert(t, len(fpr) == len(tpr) && len(fpr) >= 2)
	assert.Assert(t, fpr[0] <= fpr[len(fpr)-1])
}

func Test_ROCInverted(t *testing.T) {
	yTrue := []float64{0, 1}
	scores := []float64{0.9, 0.1}
	_, _, auc, err := ROC(yTrue, scores)
	assert.NilError(t, err)
	assert.Assert(t, auc < 0.5)
}

func Test_ROCHardLabels(t *testing.T) {
	// hard 0/1 scores degenerate the sweep to a single working point
	yTrue := []float64{0, 0, 1, 1}
	scores := []float64{0, 1, 1, 1}
	_, _, auc, err := ROC(yTrue, scores)
	assert.NilError(t, err)
	assert.Assert(t, auc > 0.5 && auc <= 1)
}

func Test_ROCErrors(t *testing.T) {
	_, _, _, err := ROC([]float64{1}, []float64{})
	assert.Assert(t, err != nil)
}

func Test_PR(t *testing.T) {
	yTrue := []float64{0, 1, 0, 1}
	scores := []float64{0.2, 0.9, 0.1, 0.8}
	recall, precision, err := PR(yTrue, scores)
	assert.NilError(t, err)
	assert.Assert(t, len(recall) == len(precision))
	// a perfect ranking holds precision 1 until full recall
	for i := range recall {
		if recall[i] < 1 {
			assert.Assert(t, precision[i] == 1)
		}
	}
	assert.Assert(t, recall[len(recall)-1] == 1)
}

func Test_Misclassified(t *testing.T) {
	miss := Misclassified([]float64{0, 1, 1, 0}, []float64{0, 0, 1, 1})
	assert.Assert(t, len(miss) == 2)
	assert.Assert(t, miss[0] == 1 && miss[1] == 3)
}
