package eval

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mriscan/mriclass/dataset"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

/*
SaveROCPlot renders the ROC curve with a random-guess diagonal
*/
func SaveROCPlot(fpr, tpr []float64, auc float64, path string) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = fmt.Sprintf("ROC curve (AUC = %.3f)", auc)
	p.X.Label.Text = "false positive rate"
	p.Y.Label.Text = "true positive rate"
	curve, err := plotter.NewLine(points(fpr, tpr))
	if err != nil {
		return zorros.Trace(err)
	}
	guess, err := plotter.NewLine(points([]float64{0, 1}, []float64{0, 1}))
	if err != nil {
		return zorros.Trace(err)
	}
	guess.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(plotter.NewGrid(), curve, guess)
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

/*
SavePRPlot renders the precision-recall curve
*/
func SavePRPlot(recall, precision []float64, path string) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = "Precision-Recall curve"
	p.X.Label.Text = "recall"
	p.Y.Label.Text = "precision"
	p.Y.Max = 1.05
	curve, err := plotter.NewLine(points(recall, precision))
	if err != nil {
		return zorros.Trace(err)
	}
	p.Add(plotter.NewGrid(), curve)
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

/*
SaveConfusionPlot renders the 2x2 confusion matrix as a heatmap
*/
func SaveConfusionPlot(cm [2][2]int, path string) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = "Confusion matrix"
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "actual"
	hm := plotter.NewHeatMap(confusionGrid{cm}, palette.Heat(12, 1))
	p.Add(hm)
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

func points(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

type confusionGrid struct{ cm [2][2]int }

func (g confusionGrid) Dims() (int, int)   { return 2, 2 }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.cm[r][c]) }

/*
SaveMisclassified re-encodes every misclassified test sample as a png
into dir named by its index, truth and prediction
*/
func SaveMisclassified(ds dataset.Dataset, miss []int, yPred []float64, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zorros.Trace(err)
	}
	for _, i := range miss {
		img := image.NewGray(image.Rect(0, 0, dataset.Width, dataset.Height))
		copy(img.Pix, ds[i].Pixels)
		name := fmt.Sprintf("sample%03d_true%d_pred%d.png", i, ds[i].Label, int(yPred[i]+0.5))
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return zorros.Trace(err)
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return zorros.Trace(err)
		}
	}
	return nil
}
