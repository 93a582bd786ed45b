package datasets

import (
	"fmt"

	"github.com/eegml/eegset/frames"
)

// BaseDataset adapts one item source plus a description record into the
// uniform per-item interface. When constructed with a target field, the
// source's per-item target is replaced by the value of that description
// field on every item.
type BaseDataset struct {
	// Source is the underlying item source, e.g. a continuous recording.
	Source Dataset

	desc        Description
	targetField string
}

// NewBaseDataset wraps source with the given description. targetField may be
// empty, in which case items keep the target supplied by the source; when
// set it must name an existing description field.
func NewBaseDataset(source Dataset, desc Description, targetField string) (*BaseDataset, error) {
	if source == nil {
		return nil, fmt.Errorf("item source cannot be nil")
	}
	if targetField != "" && !desc.Has(targetField) {
		return nil, fmt.Errorf("%q not in description", targetField)
	}
	return &BaseDataset{Source: source, desc: desc, targetField: targetField}, nil
}

// Len returns the number of items in the underlying source.
func (b *BaseDataset) Len() int { return b.Source.Len() }

// Example returns item i from the source, substituting the target when the
// dataset was built with a target field.
func (b *BaseDataset) Example(i int) (Sample, error) {
	s, err := b.Source.Example(i)
	if err != nil {
		return Sample{}, err
	}
	if b.targetField != "" {
		s.Target = b.desc.Value(b.targetField)
	}
	return s, nil
}

// Description returns the dataset's metadata record.
func (b *BaseDataset) Description() Description { return b.desc }

// TargetField returns the description field used as the target, or "".
func (b *BaseDataset) TargetField() string { return b.targetField }

// WindowsDataset adapts a window-level item source (one that carries a
// per-item metadata frame, e.g. signals.Epochs) plus a description record.
type WindowsDataset struct {
	// Source is the underlying window-level source.
	Source Dataset

	desc Description
	meta MetadataProvider
}

// NewWindowsDataset wraps a window-level source with the given description.
// The source must implement MetadataProvider.
func NewWindowsDataset(source Dataset, desc Description) (*WindowsDataset, error) {
	if source == nil {
		return nil, fmt.Errorf("item source cannot be nil")
	}
	mp, ok := source.(MetadataProvider)
	if !ok {
		return nil, fmt.Errorf("windows source %T carries no metadata frame", source)
	}
	return &WindowsDataset{Source: source, desc: desc, meta: mp}, nil
}

// Len returns the number of windows.
func (w *WindowsDataset) Len() int { return w.Source.Len() }

// Example returns window i with its target and placement.
func (w *WindowsDataset) Example(i int) (Sample, error) {
	return w.Source.Example(i)
}

// Description returns the dataset's metadata record.
func (w *WindowsDataset) Description() Description { return w.desc }

// Metadata returns the per-window metadata frame of the underlying source.
func (w *WindowsDataset) Metadata() (*frames.Frame, error) {
	return w.meta.Metadata()
}
