package datasets

import "errors"

// Split and aggregation errors. They are sentinel values so callers can
// branch with errors.Is; the wrapped messages name the offending value.
var (
	// ErrEmptyConcat is returned when a ConcatDataset would be built from
	// zero datasets, including via a split group that is an empty sequence.
	ErrEmptyConcat = errors.New("datasets should not be an empty iterable")

	// ErrUnknownField is returned by split-by-field when the field does not
	// exist among the description columns.
	ErrUnknownField = errors.New("field not found in description")

	// ErrEmptySplit is returned when the top-level split specification
	// selects no groups at all.
	ErrEmptySplit = errors.New("split selects no datasets")

	// ErrIndexOutOfRange is returned when a split group names a dataset
	// position outside the concatenation.
	ErrIndexOutOfRange = errors.New("dataset index out of range")

	// ErrBadSplitGroup is returned when a split group is not a flat
	// sequence of integer dataset positions.
	ErrBadSplitGroup = errors.New("split groups must be flat sequences of dataset indices")

	// ErrNoMetadata is returned when metadata aggregation is invoked on a
	// concatenation containing datasets without a per-item metadata frame.
	ErrNoMetadata = errors.New("metadata can only be aggregated over windowed datasets")
)
