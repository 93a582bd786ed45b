package datasets

import (
	"fmt"
	"strconv"
)

// SplitSpec is the resolved form of a split request: either by the distinct
// values of a description field, or by explicit groups of leaf positions.
// Dynamic inputs (string, flat index list, nested index lists) are resolved
// into a SplitSpec once, at the API boundary, by ParseSplitBy.
type SplitSpec struct {
	field   string
	groups  [][]int
	byField bool
}

// ByField splits on the distinct values of the named description field.
func ByField(name string) SplitSpec {
	return SplitSpec{field: name, byField: true}
}

// ByGroups splits into one group per listed sequence of leaf positions.
func ByGroups(groups ...[]int) SplitSpec {
	return SplitSpec{groups: groups}
}

// ByIndices selects the listed leaf positions as a single group keyed "0".
func ByIndices(indices ...int) SplitSpec {
	if len(indices) == 0 {
		// keep zero groups so the empty request fails as a bounds error
		return SplitSpec{}
	}
	return SplitSpec{groups: [][]int{indices}}
}

// ParseSplitBy resolves a dynamically shaped split request into a SplitSpec.
// Accepted shapes: a field name (string), a flat sequence of leaf positions
// ([]int or []any of ints), or a sequence of such flat sequences ([][]int or
// []any of them). Any deeper nesting fails with ErrBadSplitGroup.
func ParseSplitBy(by any) (SplitSpec, error) {
	switch v := by.(type) {
	case string:
		return ByField(v), nil
	case []int:
		return ByIndices(v...), nil
	case [][]int:
		return ByGroups(v...), nil
	case []any:
		return parseDynamic(v)
	default:
		return SplitSpec{}, fmt.Errorf("%w: cannot split by %T", ErrBadSplitGroup, by)
	}
}

// parseDynamic handles []any requests: either every element is an integer
// (one flat group) or every element is itself a flat integer sequence.
func parseDynamic(seq []any) (SplitSpec, error) {
	if len(seq) == 0 {
		return SplitSpec{}, nil
	}
	if _, ok := asInt(seq[0]); ok {
		flat := make([]int, len(seq))
		for i, el := range seq {
			n, ok := asInt(el)
			if !ok {
				return SplitSpec{}, fmt.Errorf("%w: element %d is %T, want int", ErrBadSplitGroup, i, el)
			}
			flat[i] = n
		}
		return ByIndices(flat...), nil
	}
	groups := make([][]int, len(seq))
	for i, el := range seq {
		group, err := asFlatInts(el)
		if err != nil {
			return SplitSpec{}, fmt.Errorf("group %d: %w", i, err)
		}
		groups[i] = group
	}
	return ByGroups(groups...), nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}

func asFlatInts(v any) ([]int, error) {
	switch seq := v.(type) {
	case []int:
		return seq, nil
	case []any:
		out := make([]int, len(seq))
		for i, el := range seq {
			n, ok := asInt(el)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, want int", ErrBadSplitGroup, i, el)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T, want a sequence of ints", ErrBadSplitGroup, v)
	}
}

// Split partitions the concatenation according to by, which may be a field
// name, a flat sequence of leaf positions, or a sequence of such sequences
// (see ParseSplitBy). Each returned dataset is a fresh ConcatDataset sharing
// the selected leaves, with its description index reset; the receiver is
// never mutated.
func (c *ConcatDataset) Split(by any) (map[string]*ConcatDataset, error) {
	spec, err := ParseSplitBy(by)
	if err != nil {
		return nil, err
	}
	return c.SplitBy(spec)
}

// SplitBy applies a resolved SplitSpec. See Split.
func (c *ConcatDataset) SplitBy(spec SplitSpec) (map[string]*ConcatDataset, error) {
	if spec.byField {
		return c.splitByField(spec.field)
	}
	return c.splitByGroups(spec.groups)
}

// splitByField partitions the leaves by the distinct values of field in the
// aggregated description, preserving leaf order within each group. Keys are
// the stringified field values. Leaves whose description lacks the field
// belong to no group.
func (c *ConcatDataset) splitByField(field string) (map[string]*ConcatDataset, error) {
	if !c.desc.HasColumn(field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	keys := make([]string, 0)
	grouped := make(map[string][]Dataset)
	for _, d := range c.datasets {
		v, ok := d.Description().Get(field)
		if !ok {
			continue
		}
		key := fmt.Sprint(v)
		if _, seen := grouped[key]; !seen {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], d)
	}

	splits := make(map[string]*ConcatDataset, len(keys))
	for _, key := range keys {
		sub, err := NewConcatDataset(grouped[key]...)
		if err != nil {
			return nil, err
		}
		splits[key] = sub
	}
	return splits, nil
}

// splitByGroups builds one ConcatDataset per group of leaf positions, keyed
// by the group's position ("0", "1", ...). An empty top-level request is a
// bounds error; an out-of-range position is a bounds error naming it; an
// empty group is a contract violation surfaced as ErrEmptyConcat.
func (c *ConcatDataset) splitByGroups(groups [][]int) (map[string]*ConcatDataset, error) {
	if len(groups) == 0 {
		return nil, ErrEmptySplit
	}
	splits := make(map[string]*ConcatDataset, len(groups))
	for g, group := range groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("group %d: %w", g, ErrEmptyConcat)
		}
		selected := make([]Dataset, len(group))
		for i, pos := range group {
			if pos < 0 || pos >= len(c.datasets) {
				return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, pos, len(c.datasets))
			}
			selected[i] = c.datasets[pos]
		}
		sub, err := NewConcatDataset(selected...)
		if err != nil {
			return nil, err
		}
		splits[strconv.Itoa(g)] = sub
	}
	return splits, nil
}
