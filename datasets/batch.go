package datasets

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// WindowBatchFlat stores a batch of same-shaped windows in flat contiguous
// buffers, ready for conversion into tensors.
type WindowBatchFlat struct {
	// Inputs is the window data, laid out [batch][channels][samples].
	Inputs []float32

	// Targets holds one numeric target per window.
	Targets []float32

	Batch    int
	Channels int
	Samples  int
}

// MakeWindowBatchFlat flattens a batch of samples into contiguous buffers.
// All samples must share the same shape and carry numeric targets.
func MakeWindowBatchFlat(batch []Sample) (*WindowBatchFlat, error) {
	if len(batch) == 0 {
		return &WindowBatchFlat{}, nil
	}

	channels, samples, err := windowShape(batch[0].Shape)
	if err != nil {
		return nil, fmt.Errorf("sample 0: %w", err)
	}

	flat := &WindowBatchFlat{
		Inputs:   make([]float32, len(batch)*channels*samples),
		Targets:  make([]float32, len(batch)),
		Batch:    len(batch),
		Channels: channels,
		Samples:  samples,
	}
	stride := channels * samples
	for i, s := range batch {
		ch, sa, err := windowShape(s.Shape)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if ch != channels || sa != samples {
			return nil, fmt.Errorf("inconsistent shapes: sample 0 is [%d %d], sample %d is [%d %d]",
				channels, samples, i, ch, sa)
		}
		if len(s.Data) != stride {
			return nil, fmt.Errorf("sample %d has %d values, want %d", i, len(s.Data), stride)
		}
		copy(flat.Inputs[i*stride:], s.Data)

		t, err := numericTarget(s.Target)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		flat.Targets[i] = t
	}
	return flat, nil
}

// windowShape interprets a sample shape as (channels, samples). A rank-1
// shape is a single sample column across channels.
func windowShape(shape []int) (channels, samples int, err error) {
	switch len(shape) {
	case 1:
		return shape[0], 1, nil
	case 2:
		return shape[0], shape[1], nil
	default:
		return 0, 0, fmt.Errorf("unsupported sample shape %v", shape)
	}
}

// numericTarget converts a sample target to float32 for batching. Booleans
// map to 0/1; strings and absent targets cannot be batched.
func numericTarget(t any) (float32, error) {
	switch v := t.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	case int:
		return float32(v), nil
	case int32:
		return float32(v), nil
	case int64:
		return float32(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("target %v (%T) is not numeric", t, t)
	}
}

// ToGomlxTensors converts the batch into gomlx tensors: inputs shaped
// [batch, channels, samples] and targets shaped [batch, 1].
func (b *WindowBatchFlat) ToGomlxTensors() (inputs, targets *tensors.Tensor, err error) {
	if b.Batch == 0 || b.Channels == 0 || b.Samples == 0 {
		emptyIn := make([][][]float32, 0)
		emptyTa := make([][]float32, 0)
		return tensors.FromAnyValue(emptyIn), tensors.FromAnyValue(emptyTa), nil
	}
	data := make([][][]float32, b.Batch)
	idx := 0
	for i := 0; i < b.Batch; i++ {
		data[i] = make([][]float32, b.Channels)
		for j := 0; j < b.Channels; j++ {
			data[i][j] = b.Inputs[idx : idx+b.Samples]
			idx += b.Samples
		}
	}
	targs := make([][]float32, b.Batch)
	for i := range targs {
		targs[i] = b.Targets[i : i+1]
	}
	return tensors.FromAnyValue(data), tensors.FromAnyValue(targs), nil
}

// Loader iterates a dataset in minibatches. It implements the gomlx
// train.Dataset contract: Yield produces one batch of tensors per call and
// returns io.EOF at the end of the epoch; Restart rewinds for the next
// epoch. It also exposes Batch for trainers that consume raw float slices.
type Loader struct {
	// DS is the dataset to iterate.
	DS Dataset

	// BatchSize for yielded batches.
	BatchSize int

	rng     *rand.Rand
	shuffle bool
	order   []int
	next    int
}

// NewLoader creates a loader over ds. batchSize <= 0 defaults to 32.
func NewLoader(ds Dataset, batchSize int, seed int64) *Loader {
	if batchSize <= 0 {
		batchSize = 32
	}
	l := &Loader{
		DS:        ds,
		BatchSize: batchSize,
		rng:       rand.New(rand.NewSource(seed)),
	}
	l.reset()
	return l
}

func (l *Loader) reset() {
	n := l.DS.Len()
	if len(l.order) != n {
		l.order = make([]int, n)
	}
	for i := range l.order {
		l.order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(n, func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	l.next = 0
}

// Shuffle enables shuffling and reshuffles the current epoch order.
func (l *Loader) Shuffle(seed int64) {
	l.shuffle = true
	l.rng.Seed(seed)
	l.reset()
}

// Name returns the loader's name for training logs.
func (l *Loader) Name() string { return "eegset.Loader" }

// Len returns the number of examples in the underlying dataset.
func (l *Loader) Len() int { return l.DS.Len() }

// Batch returns inputs (flattened window per row) and targets (length-1
// vector per row) for the given global indices.
func (l *Loader) Batch(indices []int) ([][]float32, [][]float32, error) {
	inputs := make([][]float32, len(indices))
	targets := make([][]float32, len(indices))
	for i, idx := range indices {
		s, err := l.DS.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[i] = s.Data
		t, err := numericTarget(s.Target)
		if err != nil {
			return nil, nil, fmt.Errorf("example %d: %w", idx, err)
		}
		targets[i] = []float32{t}
	}
	return inputs, targets, nil
}

// Tensors reads the given examples and returns them as gomlx tensors.
func (l *Loader) Tensors(indices []int) (inputs, targets *tensors.Tensor, err error) {
	batch := make([]Sample, len(indices))
	for i, idx := range indices {
		s, err := l.DS.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		batch[i] = s
	}
	flat, err := MakeWindowBatchFlat(batch)
	if err != nil {
		return nil, nil, err
	}
	return flat.ToGomlxTensors()
}

// Yield returns the next batch of the epoch as gomlx tensors, or io.EOF
// once the epoch is exhausted. The final batch may be short.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if l.next >= len(l.order) {
		return nil, nil, nil, io.EOF
	}
	end := l.next + l.BatchSize
	if end > len(l.order) {
		end = len(l.order)
	}
	indices := l.order[l.next:end]
	l.next = end

	in, ta, err := l.Tensors(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{in}, []*tensors.Tensor{ta}, nil
}

// Restart rewinds the loader for a new epoch, reshuffling when enabled.
func (l *Loader) Restart() error {
	l.reset()
	return nil
}
