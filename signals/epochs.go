package signals

import (
	"fmt"

	"github.com/eegml/eegset/datasets"
	"github.com/eegml/eegset/frames"
)

// Metadata column names used by epoch collections. They match the on-disk
// naming used by common EEG tooling.
const (
	ColWindowInTrial = "i_window_in_trial"
	ColStartInTrial  = "i_start_in_trial"
	ColStopInTrial   = "i_stop_in_trial"
	ColTarget        = "target"
)

// Window is one precomputed, event-aligned segment of a recording.
type Window struct {
	// Data is the segment, channel-major, of length channels*samples.
	Data []float32

	// Target is the event code of the window's trial.
	Target int

	// Span locates the window within its trial.
	Span datasets.WindowSpan
}

// Epochs is a collection of same-shaped windows cut from one recording,
// together with a per-window metadata frame. It satisfies the dataset item
// source and metadata contracts.
type Epochs struct {
	channels int
	samples  int
	windows  []Window
	meta     *frames.Frame
}

// NewEpochs builds an epoch collection of channels x samples windows. Every
// window buffer must have exactly channels*samples values.
func NewEpochs(channels, samples int, windows []Window) (*Epochs, error) {
	if channels <= 0 || samples <= 0 {
		return nil, fmt.Errorf("window shape [%d, %d] must be positive", channels, samples)
	}
	size := channels * samples
	meta := frames.New(ColWindowInTrial, ColStartInTrial, ColStopInTrial, ColTarget)
	for i, w := range windows {
		if len(w.Data) != size {
			return nil, fmt.Errorf("window %d has %d values, want %d", i, len(w.Data), size)
		}
		meta.AppendRow([]frames.Cell{
			{Name: ColWindowInTrial, Value: w.Span.Number},
			{Name: ColStartInTrial, Value: w.Span.Start},
			{Name: ColStopInTrial, Value: w.Span.Stop},
			{Name: ColTarget, Value: w.Target},
		})
	}
	return &Epochs{channels: channels, samples: samples, windows: windows, meta: meta}, nil
}

// Shape returns the [channels, samples] shape shared by all windows.
func (e *Epochs) Shape() []int { return []int{e.channels, e.samples} }

// Len returns the number of windows.
func (e *Epochs) Len() int { return len(e.windows) }

// Example returns window i with its target and placement.
func (e *Epochs) Example(i int) (datasets.Sample, error) {
	if i < 0 || i >= len(e.windows) {
		return datasets.Sample{}, fmt.Errorf("index %d out of range [0, %d)", i, len(e.windows))
	}
	w := e.windows[i]
	return datasets.Sample{
		Data:   w.Data,
		Shape:  []int{e.channels, e.samples},
		Target: w.Target,
		Window: w.Span,
	}, nil
}

// Metadata returns the per-window metadata frame: one row per window with
// the window placement columns and the target.
func (e *Epochs) Metadata() (*frames.Frame, error) { return e.meta, nil }
