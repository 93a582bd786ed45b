package datasets

import (
	"fmt"
	"sort"

	"github.com/eegml/eegset/frames"
)

// ConcatDataset composes an ordered sequence of described datasets into one
// logical dataset with global indexing. Nested concatenations are flattened
// at construction time: only leaf datasets are stored, so concatenating
// concatenations is associative (same length, same cumulative sizes, same
// description rows as concatenating the leaves directly).
type ConcatDataset struct {
	datasets []Described
	cumSizes []int
	desc     *frames.Frame
}

// NewConcatDataset builds a concatenation of the given datasets. Inputs that
// are themselves *ConcatDataset contribute their leaves; every other input
// must carry a description (implement Described). Construction is shallow:
// the new dataset shares the inputs' item sources.
func NewConcatDataset(items ...Dataset) (*ConcatDataset, error) {
	if len(items) == 0 {
		return nil, ErrEmptyConcat
	}
	var leaves []Described
	for i, item := range items {
		switch d := item.(type) {
		case *ConcatDataset:
			leaves = append(leaves, d.datasets...)
		case Described:
			leaves = append(leaves, d)
		default:
			return nil, fmt.Errorf("dataset %d (%T) carries no description and cannot be concatenated", i, item)
		}
	}

	c := &ConcatDataset{datasets: leaves}
	c.cumSizes = make([]int, len(leaves))
	total := 0
	for i, d := range leaves {
		total += d.Len()
		c.cumSizes[i] = total
	}

	c.desc = frames.New()
	for _, d := range leaves {
		c.desc.AppendRow(d.Description().cells())
	}
	return c, nil
}

// Len returns the total number of items across all leaves.
func (c *ConcatDataset) Len() int {
	if len(c.cumSizes) == 0 {
		return 0
	}
	return c.cumSizes[len(c.cumSizes)-1]
}

// Datasets returns the leaf datasets in order. The slice must not be
// modified.
func (c *ConcatDataset) Datasets() []Described { return c.datasets }

// CumulativeSizes returns the prefix sums of the leaf lengths;
// CumulativeSizes()[i] is the total length of leaves 0..i. The slice must
// not be modified.
func (c *ConcatDataset) CumulativeSizes() []int { return c.cumSizes }

// Description returns the aggregated description frame: one row per leaf in
// leaf order, columns the union of all leaves' description fields, row index
// reset to 0..n-1.
func (c *ConcatDataset) Description() *frames.Frame { return c.desc }

// Example resolves the owning leaf of the global index by binary search over
// the cumulative sizes and delegates with the local offset.
func (c *ConcatDataset) Example(global int) (Sample, error) {
	if global < 0 || global >= c.Len() {
		return Sample{}, fmt.Errorf("index %d out of range [0, %d)", global, c.Len())
	}
	leaf := sort.Search(len(c.cumSizes), func(i int) bool { return global < c.cumSizes[i] })
	local := global
	if leaf > 0 {
		local -= c.cumSizes[leaf-1]
	}
	return c.datasets[leaf].Example(local)
}

// Metadata aggregates the per-item metadata frames of all leaves into one
// frame with a row per item in global order. Each leaf's description fields
// are broadcast onto the rows belonging to that leaf, so the result's
// columns are the union of the metadata columns and the description
// columns. It fails with ErrNoMetadata when any leaf lacks a metadata
// frame (e.g. a continuous, non-windowed dataset).
func (c *ConcatDataset) Metadata() (*frames.Frame, error) {
	parts := make([]*frames.Frame, 0, len(c.datasets))
	for i, d := range c.datasets {
		mp, ok := d.(MetadataProvider)
		if !ok {
			return nil, fmt.Errorf("%w: dataset %d (%T) has none", ErrNoMetadata, i, d)
		}
		md, err := mp.Metadata()
		if err != nil {
			return nil, fmt.Errorf("metadata of dataset %d: %w", i, err)
		}
		part := frames.New()
		descCells := d.Description().cells()
		for row := 0; row < md.Len(); row++ {
			cells, err := md.Row(row)
			if err != nil {
				return nil, err
			}
			part.AppendRow(append(cells, descCells...))
		}
		parts = append(parts, part)
	}
	return frames.Concat(parts...), nil
}
