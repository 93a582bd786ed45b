// Package signals models in-memory neurophysiological recordings: continuous
// multi-channel signals with event markers, and event-aligned window
// collections (epochs). It stands in for the external acquisition and file
// reading layers, which are out of scope here.
package signals

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/eegml/eegset/datasets"
)

// Info describes the measurement setup of a recording.
type Info struct {
	// ChannelNames, one per signal channel.
	ChannelNames []string

	// SampleRate in Hz.
	SampleRate float64
}

// Event is one marker in a continuous recording.
type Event struct {
	// Sample is the onset, as a sample index into the recording.
	Sample int

	// Code identifies the event kind (e.g. the stimulus class).
	Code int
}

// Recording is a continuous multi-channel signal with optional event
// markers. The backing matrix is channels x samples and is shared, never
// copied, by the dataset layer.
type Recording struct {
	// Info describes channels and sampling.
	Info Info

	// Events are the recording's markers, ordered by onset.
	Events []Event

	data *mat.Dense
}

// NewRecording wraps a channels x samples matrix. The matrix row count must
// match the channel names and all event onsets must fall inside the
// recording.
func NewRecording(data *mat.Dense, info Info, events []Event) (*Recording, error) {
	if data == nil {
		return nil, fmt.Errorf("recording data cannot be nil")
	}
	rows, cols := data.Dims()
	if rows != len(info.ChannelNames) {
		return nil, fmt.Errorf("data has %d rows but info names %d channels", rows, len(info.ChannelNames))
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %v", info.SampleRate)
	}
	for i, ev := range events {
		if ev.Sample < 0 || ev.Sample >= cols {
			return nil, fmt.Errorf("event %d onset %d outside recording [0, %d)", i, ev.Sample, cols)
		}
		if i > 0 && ev.Sample < events[i-1].Sample {
			return nil, fmt.Errorf("event %d onset %d before event %d", i, ev.Sample, i-1)
		}
	}
	return &Recording{data: data, Info: info, Events: events}, nil
}

// NumChannels returns the number of signal channels.
func (r *Recording) NumChannels() int {
	rows, _ := r.data.Dims()
	return rows
}

// NumSamples returns the number of samples per channel.
func (r *Recording) NumSamples() int {
	_, cols := r.data.Dims()
	return cols
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	return float64(r.NumSamples()) / r.Info.SampleRate
}

// Segment extracts samples [start, stop) of every channel as a flat
// channel-major float32 buffer plus its [channels, samples] shape.
func (r *Recording) Segment(start, stop int) ([]float32, []int, error) {
	if start < 0 || stop > r.NumSamples() || start >= stop {
		return nil, nil, fmt.Errorf("segment [%d, %d) outside recording [0, %d)", start, stop, r.NumSamples())
	}
	channels := r.NumChannels()
	width := stop - start
	out := make([]float32, channels*width)
	for ch := 0; ch < channels; ch++ {
		row := r.data.RawRowView(ch)
		for i, v := range row[start:stop] {
			out[ch*width+i] = float32(v)
		}
	}
	return out, []int{channels, width}, nil
}

// ChannelStats returns the mean and standard deviation of one channel.
func (r *Recording) ChannelStats(ch int) (mean, std float64, err error) {
	if ch < 0 || ch >= r.NumChannels() {
		return 0, 0, fmt.Errorf("channel %d out of range [0, %d)", ch, r.NumChannels())
	}
	mean, std = stat.MeanStdDev(r.data.RawRowView(ch), nil)
	return mean, std, nil
}

// Len returns the number of per-sample items, satisfying the dataset item
// source contract: a continuous recording has one item per sample.
func (r *Recording) Len() int { return r.NumSamples() }

// Example returns sample column i across all channels. Continuous
// recordings carry no per-item target.
func (r *Recording) Example(i int) (datasets.Sample, error) {
	if i < 0 || i >= r.NumSamples() {
		return datasets.Sample{}, fmt.Errorf("index %d out of range [0, %d)", i, r.NumSamples())
	}
	channels := r.NumChannels()
	col := make([]float32, channels)
	for ch := 0; ch < channels; ch++ {
		col[ch] = float32(r.data.At(ch, i))
	}
	return datasets.Sample{Data: col, Shape: []int{channels}}, nil
}
