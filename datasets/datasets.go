// Package datasets wraps EEG recordings and event-aligned windows into
// dataset objects usable by ML training loops, and provides utilities to
// concatenate and split them.
//
// The layering is:
//
//   - An item source (for example signals.Recording or signals.Epochs)
//     exposes uniform per-item access: Len and Example.
//   - BaseDataset adapts one item source plus a Description record, and can
//     repurpose a description field as the training target.
//   - WindowsDataset does the same for window-level sources that carry a
//     per-item metadata frame.
//   - ConcatDataset composes an ordered sequence of the above into one
//     logical dataset with global indexing, an aggregated description frame
//     and split operations.
//
// All reads are synchronous and side-effect free. Composition is shallow:
// concatenating or splitting shares the underlying item sources, it never
// copies signal data, and splits never mutate their parent.
package datasets

import "github.com/eegml/eegset/frames"

// Sample is a single item produced by a dataset: a flat data buffer with its
// shape, a target, and (for window-level datasets) the window placement.
type Sample struct {
	// Data is the item's signal buffer, channel-major.
	Data []float32

	// Shape describes Data, e.g. [channels] for one sample column of a
	// continuous recording or [channels, samples] for a window.
	Shape []int

	// Target is the training target. For window-level items this is the
	// event code; a BaseDataset constructed with a target field replaces it
	// with the description value of that field, so the same recording can
	// predict a subject-level attribute instead of an event code.
	Target any

	// Window is the item's placement within its trial. Zero for items of
	// continuous (non-windowed) sources.
	Window WindowSpan
}

// WindowSpan locates one window inside its trial.
type WindowSpan struct {
	// Number is the position of the window within its trial, starting at 0.
	Number int

	// Start is the first sample of the window, relative to the trial onset.
	Start int

	// Stop is one past the last sample of the window, relative to the
	// trial onset.
	Stop int
}

// Dataset is the minimal per-item access contract shared by every dataset
// type in this package.
type Dataset interface {
	// Len returns the number of items.
	Len() int

	// Example returns the item at index i.
	Example(i int) (Sample, error)
}

// Described is a Dataset carrying a per-recording description record. The
// leaf datasets stored inside a ConcatDataset satisfy this interface.
type Described interface {
	Dataset

	// Description returns the dataset's metadata record.
	Description() Description
}

// MetadataProvider is implemented by window-level sources and datasets that
// expose a per-item metadata frame (one row per window).
type MetadataProvider interface {
	// Metadata returns the per-item metadata frame.
	Metadata() (*frames.Frame, error)
}
