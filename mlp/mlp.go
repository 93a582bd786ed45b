// Package mlp provides a small, self-contained multilayer perceptron trained
// with minibatch SGD. It consumes the dataset batch interface exposed by the
// datasets package, which keeps it decoupled from the concrete dataset types
// while proving that windowed EEG datasets feed a standard training loop.
package mlp

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config holds the model and training hyperparameters.
type Config struct {
	// HiddenSizes is the list of hidden layer sizes. If empty, a single
	// hidden layer of size 64 is used.
	HiddenSizes []int

	// InputDim is the flattened window width (channels * samples). Must be
	// set by the caller; windows do not have a universal default.
	InputDim int

	// OutputDim is the regression target width (default 1, the single
	// numeric target produced by the dataset loaders).
	OutputDim int

	// LearningRate for SGD (default 0.001).
	LearningRate float64

	// Epochs to train for (default 10).
	Epochs int

	// BatchSize for minibatch updates (default 8).
	BatchSize int

	// Seed controls weight init and shuffling. Zero uses a time-based seed.
	Seed int64
}

// Dataset is the minimal interface the trainer needs from a dataset: the
// datasets.Loader satisfies it.
type Dataset interface {
	Len() int

	// Batch returns inputs and targets for the given global indices.
	// Each input is a flattened window; each target has OutputDim values.
	Batch(indices []int) ([][]float32, [][]float32, error)
}

// Model is a small configurable MLP for decoding targets from flattened
// signal windows: ReLU hidden layers, linear output, MSE loss.
type Model struct {
	// Config used for training and initialization.
	Config Config

	// layerSizes includes input size, hidden sizes, then output size.
	layerSizes []int

	// weights[l] has shape [out][in] for layer l -> l+1.
	weights [][][]float32

	// biases[l] has length out for layer l -> l+1.
	biases [][]float32

	rng *rand.Rand
}

// NewModel creates a Model with the provided configuration, initializing
// weights with a Xavier-style heuristic.
func NewModel(cfg Config) (*Model, error) {
	if cfg.InputDim <= 0 {
		return nil, errors.New("InputDim must be set to the flattened window width")
	}
	if len(cfg.HiddenSizes) == 0 {
		cfg.HiddenSizes = []int{64}
	}
	if cfg.OutputDim <= 0 {
		cfg.OutputDim = 1
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = 10
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 8
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := &Model{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}

	sizes := make([]int, 0, 2+len(cfg.HiddenSizes))
	sizes = append(sizes, cfg.InputDim)
	sizes = append(sizes, cfg.HiddenSizes...)
	sizes = append(sizes, cfg.OutputDim)
	m.layerSizes = sizes

	L := len(sizes) - 1
	m.weights = make([][][]float32, L)
	m.biases = make([][]float32, L)
	for l := 0; l < L; l++ {
		in := sizes[l]
		out := sizes[l+1]
		limit := float32(math.Sqrt(6.0 / float64(in+out)))
		w := make([][]float32, out)
		for j := 0; j < out; j++ {
			row := make([]float32, in)
			for i := 0; i < in; i++ {
				row[i] = (m.rng.Float32()*2.0 - 1.0) * limit * 0.5
			}
			w[j] = row
		}
		m.weights[l] = w
		m.biases[l] = make([]float32, out)
	}

	return m, nil
}

func reluInPlace(x []float32) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

func reluDeriv(preact []float32) []float32 {
	d := make([]float32, len(preact))
	for i := range preact {
		if preact[i] > 0 {
			d[i] = 1.0
		}
	}
	return d
}

// forwardSingle runs one input through the network, returning per-layer
// pre-activations (len L) and activations (len L+1, activations[0] = input).
func (m *Model) forwardSingle(input []float32) (preActs [][]float32, acts [][]float32, err error) {
	if len(input) != m.layerSizes[0] {
		return nil, nil, errors.New("input has incorrect dimension")
	}
	L := len(m.weights)
	acts = make([][]float32, L+1)
	acts[0] = make([]float32, len(input))
	copy(acts[0], input)

	preActs = make([][]float32, L)
	for l := 0; l < L; l++ {
		inVec := acts[l]
		outDim := len(m.biases[l])
		pre := make([]float32, outDim)
		for j := 0; j < outDim; j++ {
			sum := m.biases[l][j]
			row := m.weights[l][j]
			for i := range inVec {
				sum += row[i] * inVec[i]
			}
			pre[j] = sum
		}
		preActs[l] = pre

		act := make([]float32, outDim)
		copy(act, pre)
		if l < L-1 {
			reluInPlace(act)
		}
		acts[l+1] = act
	}
	return preActs, acts, nil
}

// PredictBatch returns predictions for a batch of flattened windows without
// training. The result has shape [batch][OutputDim].
func (m *Model) PredictBatch(inputs [][]float32) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		_, acts, err := m.forwardSingle(in)
		if err != nil {
			return nil, err
		}
		last := acts[len(acts)-1]
		pred := make([]float32, len(last))
		copy(pred, last)
		out[i] = pred
	}
	return out, nil
}

// Train fits the model to the dataset with minibatch SGD: gradients are
// accumulated over each minibatch and applied averaged.
func (m *Model) Train(ds Dataset) error {
	if ds == nil {
		return errors.New("dataset is nil")
	}
	n := ds.Len()
	if n == 0 {
		return errors.New("dataset has no examples")
	}

	epochs := m.Config.Epochs
	batchSize := m.Config.BatchSize
	lr := float32(m.Config.LearningRate)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	for ep := 0; ep < epochs; ep++ {
		m.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		for bstart := 0; bstart < n; bstart += batchSize {
			bend := bstart + batchSize
			if bend > n {
				bend = n
			}
			inputs, targets, err := ds.Batch(indices[bstart:bend])
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				continue
			}
			if err := m.step(inputs, targets, lr); err != nil {
				return err
			}
		}
	}

	return nil
}

// step accumulates gradients over one minibatch and applies the averaged
// SGD update.
func (m *Model) step(inputs, targets [][]float32, lr float32) error {
	L := len(m.weights)
	gradW := make([][][]float32, L)
	gradB := make([][]float32, L)
	for l := 0; l < L; l++ {
		outDim := len(m.biases[l])
		inDim := len(m.weights[l][0])
		gradW[l] = make([][]float32, outDim)
		for j := 0; j < outDim; j++ {
			gradW[l][j] = make([]float32, inDim)
		}
		gradB[l] = make([]float32, outDim)
	}

	for ex := range inputs {
		preacts, acts, err := m.forwardSingle(inputs[ex])
		if err != nil {
			return err
		}
		target := targets[ex]
		outAct := acts[len(acts)-1]
		if len(target) != len(outAct) {
			return errors.New("target has incorrect dimension")
		}

		// dLoss/dOutput for MSE
		delta := make([]float32, len(outAct))
		for j := range outAct {
			delta[j] = 2.0 * (outAct[j] - target[j])
		}

		for l := L - 1; l >= 0; l-- {
			inAct := acts[l]
			for j := range delta {
				gradB[l][j] += delta[j]
				for i := range inAct {
					gradW[l][j][i] += delta[j] * inAct[i]
				}
			}
			if l > 0 {
				prevLen := len(m.weights[l][0])
				newDelta := make([]float32, prevLen)
				for i := 0; i < prevLen; i++ {
					var sum float32
					for j := range delta {
						sum += m.weights[l][j][i] * delta[j]
					}
					newDelta[i] = sum
				}
				deriv := reluDeriv(preacts[l-1])
				for i := range newDelta {
					newDelta[i] *= deriv[i]
				}
				delta = newDelta
			}
		}
	}

	bInv := float32(1.0 / float64(len(inputs)))
	for l := 0; l < L; l++ {
		for j := range m.biases[l] {
			m.biases[l][j] -= lr * gradB[l][j] * bInv
			for i := range m.weights[l][j] {
				m.weights[l][j][i] -= lr * gradW[l][j][i] * bInv
			}
		}
	}
	return nil
}
