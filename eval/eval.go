/*
Package eval computes the fixed evaluation battery of a fitted
classifier: confusion matrix, per-class precision/recall/F1, ROC/AUC,
precision-recall curve and the misclassified-sample set.
*/
package eval

import (
	"sort"

	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

/*
Confusion counts test outcomes into a 2x2 matrix indexed
[truth][prediction], so [0][0] is true-negative and [1][0] is
false-negative.
*/
func Confusion(yTrue, yPred []float64) (cm [2][2]int) {
	for i, t := range yTrue {
		ti, pi := 0, 0
		if t > 0.5 {
			ti = 1
		}
		if yPred[i] > 0.5 {
			pi = 1
		}
		cm[ti][pi]++
	}
	return
}

/*
ClassReport is the per-class evaluation of a binary prediction
*/
type ClassReport struct {
	Precision [2]float64
	Recall    [2]float64
	F1        [2]float64
	Support   [2]int
	Accuracy  float64
}

/*
Report computes per-class precision/recall/F1 and overall accuracy
*/
func Report(yTrue, yPred []float64) ClassReport {
	cm := Confusion(yTrue, yPred)
	r := ClassReport{}
	correct := 0
	for c := 0; c < 2; c++ {
		tp := cm[c][c]
		fp := cm[1-c][c]
		fn := cm[c][1-c]
		r.Support[c] = cm[c][0] + cm[c][1]
		if tp+fp > 0 {
			r.Precision[c] = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			r.Recall[c] = float64(tp) / float64(tp+fn)
		}
		if r.Precision[c]+r.Recall[c] > 0 {
			r.F1[c] = 2 * r.Precision[c] * r.Recall[c] / (r.Precision[c] + r.Recall[c])
		}
		correct += tp
	}
	if len(yTrue) > 0 {
		r.Accuracy = float64(correct) / float64(len(yTrue))
	}
	return r
}

/*
ROC sweeps all score cutoffs and returns the false-positive-rate /
true-positive-rate curve with its area. Scores may be continuous
estimates or hard 0/1 labels, the latter degenerates the curve to a
single working point.
*/
func ROC(yTrue, scores []float64) (fpr, tpr []float64, auc float64, err error) {
	if len(yTrue) != len(scores) || len(yTrue) == 0 {
		return nil, nil, 0, zorros.Errorf("got %v labels and %v scores", len(yTrue), len(scores))
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })
	ys := make([]float64, len(scores))
	classes := make([]bool, len(scores))
	for i, j := range idx {
		ys[i] = scores[j]
		classes[i] = yTrue[j] > 0.5
	}
	tpr, fpr, _ = stat.ROC(nil, ys, classes, nil)
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
	}
	auc = integrate.Trapezoidal(fpr, tpr)
	return
}

func reverse(a []float64) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

/*
PR sweeps all score cutoffs descending and returns the
recall/precision curve
*/
func PR(yTrue, scores []float64) (recall, precision []float64, err error) {
	if len(yTrue) != len(scores) || len(yTrue) == 0 {
		return nil, nil, zorros.Errorf("got %v labels and %v scores", len(yTrue), len(scores))
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	positives := 0
	for _, t := range yTrue {
		if t > 0.5 {
			positives++
		}
	}
	recall = []float64{0}
	precision = []float64{1}
	tp, fp := 0, 0
	for k, j := range idx {
		if yTrue[j] > 0.5 {
			tp++
		} else {
			fp++
		}
		// emit a point per distinct threshold only
		if k+1 < len(idx) && scores[idx[k+1]] == scores[j] {
			continue
		}
		if positives > 0 {
			recall = append(recall, float64(tp)/float64(positives))
		} else {
			recall = append(recall, 0)
		}
		precision = append(precision, float64(tp)/float64(tp+fp))
	}
	return
}

/*
Misclassified returns indices of samples where prediction != truth,
for visual inspection
*/
func Misclassified(yTrue, yPred []float64) []int {
	r := []int{}
	for i, t := range yTrue {
		if (t > 0.5) != (yPred[i] > 0.5) {
			r = append(r, i)
		}
	}
	return r
}
