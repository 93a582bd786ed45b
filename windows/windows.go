// Package windows turns continuous recordings plus event markers into
// fixed-length labeled window datasets.
package windows

import (
	"fmt"

	"github.com/eegml/eegset/datasets"
	"github.com/eegml/eegset/signals"
)

// Config controls window creation. Zero values get defaults where noted.
type Config struct {
	// TrialStartOffset is added (in samples) to each trial onset.
	TrialStartOffset int

	// TrialStopOffset is added (in samples) to each trial stop.
	TrialStopOffset int

	// TrialSize is the trial length in samples. When zero, a trial extends
	// from its event onset to the next event onset (or the recording end).
	TrialSize int

	// WindowSize is the window length in samples. When zero, each trial
	// becomes a single window spanning the whole trial.
	WindowSize int

	// WindowStride is the distance between window starts in samples.
	// When zero it defaults to WindowSize (non-overlapping windows).
	WindowStride int

	// DropLast drops a trailing partial window. When false, a final
	// right-aligned window ending exactly at the trial stop is emitted
	// instead, so the trial tail is always covered.
	DropLast bool
}

// FromEvents windows every recording-backed dataset in the concatenation
// around its event markers: each event opens one trial, each trial is cut
// into windows labeled with the event code. The result is a new
// concatenation of window-level datasets, one per input dataset, in order.
func FromEvents(cds *datasets.ConcatDataset, cfg Config) (*datasets.ConcatDataset, error) {
	out := make([]datasets.Dataset, 0, len(cds.Datasets()))
	for i, leaf := range cds.Datasets() {
		rec, err := leafRecording(leaf)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		wins, err := cutTrials(rec, cfg)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		wds, err := windowsDataset(rec, wins, cfg, leaf.Description())
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		out = append(out, wds)
	}
	return datasets.NewConcatDataset(out...)
}

// FixedLength windows every recording-backed dataset in the concatenation
// with a sliding window over the whole recording, ignoring event markers.
// Each recording is treated as a single trial. When the input dataset was
// built with a target field, its integer description value labels every
// window; otherwise windows carry target 0.
func FixedLength(cds *datasets.ConcatDataset, cfg Config) (*datasets.ConcatDataset, error) {
	out := make([]datasets.Dataset, 0, len(cds.Datasets()))
	for i, leaf := range cds.Datasets() {
		rec, err := leafRecording(leaf)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		target := 0
		if bd, ok := leaf.(*datasets.BaseDataset); ok && bd.TargetField() != "" {
			target, err = intTarget(bd.Description().Value(bd.TargetField()))
			if err != nil {
				return nil, fmt.Errorf("dataset %d: %w", i, err)
			}
		}
		wins, err := cutWindows(rec, 0, rec.NumSamples(), target, cfg)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		wds, err := windowsDataset(rec, wins, cfg, leaf.Description())
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		out = append(out, wds)
	}
	return datasets.NewConcatDataset(out...)
}

// leafRecording digs the continuous recording out of a dataset. Only
// recording-backed BaseDatasets can be windowed.
func leafRecording(leaf datasets.Described) (*signals.Recording, error) {
	bd, ok := leaf.(*datasets.BaseDataset)
	if !ok {
		return nil, fmt.Errorf("cannot window %T, want a recording-backed dataset", leaf)
	}
	rec, ok := bd.Source.(*signals.Recording)
	if !ok {
		return nil, fmt.Errorf("cannot window source %T, want a continuous recording", bd.Source)
	}
	return rec, nil
}

// cutTrials cuts windows for every event-opened trial of a recording.
func cutTrials(rec *signals.Recording, cfg Config) ([]signals.Window, error) {
	if len(rec.Events) == 0 {
		return nil, fmt.Errorf("recording has no events to window around")
	}
	var wins []signals.Window
	for i, ev := range rec.Events {
		stop := rec.NumSamples()
		if cfg.TrialSize > 0 {
			stop = ev.Sample + cfg.TrialSize
		} else if i+1 < len(rec.Events) {
			stop = rec.Events[i+1].Sample
		}
		start := ev.Sample + cfg.TrialStartOffset
		stop += cfg.TrialStopOffset
		if stop > rec.NumSamples() {
			stop = rec.NumSamples()
		}
		if start < 0 || start >= stop {
			return nil, fmt.Errorf("trial %d collapses to [%d, %d)", i, start, stop)
		}
		trial, err := cutWindows(rec, start, stop, ev.Code, cfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		wins = append(wins, trial...)
	}
	return wins, nil
}

// cutWindows slides a window over one trial [start, stop) and extracts the
// segments. Spans are relative to the trial start.
func cutWindows(rec *signals.Recording, start, stop, target int, cfg Config) ([]signals.Window, error) {
	width := stop - start
	size := cfg.WindowSize
	if size <= 0 {
		size = width
	}
	stride := cfg.WindowStride
	if stride <= 0 {
		stride = size
	}
	if size > width {
		return nil, fmt.Errorf("window size %d exceeds trial length %d", size, width)
	}

	var wins []signals.Window
	number := 0
	lastStop := start
	for s := start; s+size <= stop; s += stride {
		data, _, err := rec.Segment(s, s+size)
		if err != nil {
			return nil, err
		}
		wins = append(wins, signals.Window{
			Data:   data,
			Target: target,
			Span:   datasets.WindowSpan{Number: number, Start: s - start, Stop: s - start + size},
		})
		number++
		lastStop = s + size
	}
	if !cfg.DropLast && lastStop < stop {
		data, _, err := rec.Segment(stop-size, stop)
		if err != nil {
			return nil, err
		}
		wins = append(wins, signals.Window{
			Data:   data,
			Target: target,
			Span:   datasets.WindowSpan{Number: number, Start: width - size, Stop: width},
		})
	}
	return wins, nil
}

// windowsDataset packs cut windows into a WindowsDataset carrying the
// source dataset's description.
func windowsDataset(rec *signals.Recording, wins []signals.Window, cfg Config, desc datasets.Description) (*datasets.WindowsDataset, error) {
	size := cfg.WindowSize
	if size <= 0 && len(wins) > 0 {
		size = wins[0].Span.Stop - wins[0].Span.Start
	}
	if size <= 0 {
		return nil, fmt.Errorf("no windows were produced")
	}
	ep, err := signals.NewEpochs(rec.NumChannels(), size, wins)
	if err != nil {
		return nil, err
	}
	return datasets.NewWindowsDataset(ep, desc)
}

// intTarget coerces a description value into an integer window label.
func intTarget(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("target value %v (%T) cannot label windows", v, v)
	}
}
