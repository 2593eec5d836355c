/*
Package rnn implements a binary Elman recurrent classifier consuming
flat feature rows reinterpreted as fixed-width step sequences.
*/
package rnn

import (
	"math"
	"math/rand"

	"github.com/mriscan/mriclass/dataset"
	"github.com/mriscan/mriclass/fu"
	"github.com/mriscan/mriclass/model"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
Model is the hungry form of the classifier. Zero fields take defaults.
*/
type Model struct {
	Steps  int     // sequence length, default 64
	Width  int     // values per step, default 64
	Hidden int     // hidden state width, default 64
	Batch  int     // minibatch size, default 32
	Rate   float64 // learning rate, default 0.05
	Seed   int64
}

func (e Model) config() Model {
	e.Steps = fu.Fnzi(e.Steps, dataset.Height)
	e.Width = fu.Fnzi(e.Width, dataset.Width)
	e.Hidden = fu.Fnzi(e.Hidden, 64)
	e.Batch = fu.Fnzi(e.Batch, 32)
	e.Rate = fu.Fnzd(e.Rate, 0.05)
	return e
}

/*
New creates a Model from named hyper-parameters
*/
func New(p model.Params) Model {
	return Model{
		Hidden: int(p.Get("Hidden", 64)),
		Batch:  int(p.Get("Batch", 32)),
		Rate:   p.Get("Rate", 0.05),
		Seed:   int64(p.Get("Seed", 0)),
	}
}

/*
Feed binds the model to a training and a validation subset
*/
func (e Model) Feed(train, validation model.FeatureSet) model.FatModel {
	e = e.config()
	return func(workout model.Workout) (*model.Report, error) {
		xt, err := dataset.Sequences(train.X, e.Steps, e.Width)
		if err != nil {
			return nil, err
		}
		xv, err := dataset.Sequences(validation.X, e.Steps, e.Width)
		if err != nil {
			return nil, err
		}
		if len(xt) == 0 {
			return nil, zorros.Errorf("can't train on empty subset")
		}
		rnd := rand.New(rand.NewSource(e.Seed))
		net := newNetwork(e.Steps, e.Width, e.Hidden, rnd)
		grad := newGradient(net)
		for w := workout; ; w = w.Next() {
			upd := w.TrainMetrics()
			perm := rnd.Perm(len(xt))
			for i := 0; i < len(perm); i += e.Batch {
				batch := perm[i:fu.Mini(i+e.Batch, len(perm))]
				grad.reset()
				for _, j := range batch {
					p, hs := net.forward(xt[j])
					upd.Update(p, train.Y[j])
					grad.accumulate(net, xt[j], hs, p-train.Y[j])
				}
				grad.apply(net, e.Rate/float64(len(batch)))
			}
			tupd := w.TestMetrics()
			for j, seq := range xv {
				p, _ := net.forward(seq)
				tupd.Update(p, validation.Y[j])
			}
			report, done, err := w.Complete(net.Serialize(), upd.Complete(), tupd.Complete(), false)
			if err != nil {
				return nil, err
			}
			if done {
				return report, nil
			}
		}
	}
}

/*
Network is a fitted recurrent classifier. Weight matrices are
row-major, the hidden state is carried across steps with tanh
activation and the scalar output is a sigmoid probability.
*/
type Network struct {
	Steps  int       `json:"steps"`
	Width  int       `json:"width"`
	Hidden int       `json:"hidden"`
	Wxh    []float64 `json:"wxh"` // hidden x width
	Whh    []float64 `json:"whh"` // hidden x hidden
	Bh     []float64 `json:"bh"`
	Who    []float64 `json:"who"`
	Bo     float64   `json:"bo"`
}

func newNetwork(steps, width, hidden int, rnd *rand.Rand) *Network {
	n := &Network{
		Steps:  steps,
		Width:  width,
		Hidden: hidden,
		Wxh:    make([]float64, hidden*width),
		Whh:    make([]float64, hidden*hidden),
		Bh:     make([]float64, hidden),
		Who:    make([]float64, hidden),
	}
	initWeights(n.Wxh, width, rnd)
	initWeights(n.Whh, hidden, rnd)
	initWeights(n.Who, hidden, rnd)
	return n
}

func initWeights(w []float64, fanin int, rnd *rand.Rand) {
	q := math.Sqrt(1 / float64(fanin))
	for i := range w {
		w[i] = (rnd.Float64()*2 - 1) * q
	}
}

// forward runs the sequence through the net returning the output
// probability and the hidden state of every step (hs[0] is the zero
// initial state).
func (n *Network) forward(seq [][]float64) (float64, [][]float64) {
	hs := make([][]float64, len(seq)+1)
	hs[0] = make([]float64, n.Hidden)
	h := hs[0]
	for t, x := range seq {
		next := make([]float64, n.Hidden)
		for i := 0; i < n.Hidden; i++ {
			z := n.Bh[i] +
				floats.Dot(n.Wxh[i*n.Width:(i+1)*n.Width], x) +
				floats.Dot(n.Whh[i*n.Hidden:(i+1)*n.Hidden], h)
			next[i] = math.Tanh(z)
		}
		hs[t+1] = next
		h = next
	}
	return sigmoid(floats.Dot(n.Who, h) + n.Bo), hs
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

/*
Predict scores every row of a flat feature matrix with the tumor
probability
*/
func (n *Network) Predict(x *mat.Dense) ([]float64, error) {
	seqs, err := dataset.Sequences(x, n.Steps, n.Width)
	if err != nil {
		return nil, err
	}
	r := make([]float64, len(seqs))
	for i, seq := range seqs {
		r[i], _ = n.forward(seq)
	}
	return r, nil
}

// gradient accumulates full BPTT gradients over a minibatch.
type gradient struct {
	wxh, whh, bh, who []float64
	bo                float64
	dh, dz            []float64
}

func newGradient(n *Network) *gradient {
	return &gradient{
		wxh: make([]float64, len(n.Wxh)),
		whh: make([]float64, len(n.Whh)),
		bh:  make([]float64, len(n.Bh)),
		who: make([]float64, len(n.Who)),
		dh:  make([]float64, n.Hidden),
		dz:  make([]float64, n.Hidden),
	}
}

func (g *gradient) reset() {
	zero(g.wxh)
	zero(g.whh)
	zero(g.bh)
	zero(g.who)
	g.bo = 0
}

func zero(a []float64) {
	for i := range a {
		a[i] = 0
	}
}

// accumulate backpropagates the output error dout = p - y through
// time. The loss is binary cross-entropy over the sigmoid output.
func (g *gradient) accumulate(n *Network, seq [][]float64, hs [][]float64, dout float64) {
	last := hs[len(hs)-1]
	floats.AddScaled(g.who, dout, last)
	g.bo += dout
	for i := range g.dh {
		g.dh[i] = n.Who[i] * dout
	}
	for t := len(seq) - 1; t >= 0; t-- {
		h, prev := hs[t+1], hs[t]
		for i := range g.dz {
			g.dz[i] = g.dh[i] * (1 - h[i]*h[i])
		}
		for i, d := range g.dz {
			floats.AddScaled(g.wxh[i*n.Width:(i+1)*n.Width], d, seq[t])
			floats.AddScaled(g.whh[i*n.Hidden:(i+1)*n.Hidden], d, prev)
			g.bh[i] += d
		}
		for i := range g.dh {
			g.dh[i] = 0
			for j, d := range g.dz {
				g.dh[i] += n.Whh[j*n.Hidden+i] * d
			}
		}
	}
}

// apply take a gradient step, clipping the overall norm to keep long
// sequences from exploding.
func (g *gradient) apply(n *Network, rate float64) {
	const clip = 5
	norm := math.Sqrt(floats.Dot(g.wxh, g.wxh) + floats.Dot(g.whh, g.whh) +
		floats.Dot(g.bh, g.bh) + floats.Dot(g.who, g.who) + g.bo*g.bo)
	if norm > clip {
		rate *= clip / norm
	}
	floats.AddScaled(n.Wxh, -rate, g.wxh)
	floats.AddScaled(n.Whh, -rate, g.whh)
	floats.AddScaled(n.Bh, -rate, g.bh)
	floats.AddScaled(n.Who, -rate, g.who)
	n.Bo -= rate * g.bo
}
