package datasets

import (
	"errors"
	"testing"
)

// fiveLeaves builds the canonical fixture: five leaves of 100 items each.
func fiveLeaves(t *testing.T) []*BaseDataset {
	t.Helper()
	leaves := make([]*BaseDataset, 5)
	for i := range leaves {
		leaves[i] = newLeaf(t, i, 100,
			Field{Name: "subject", Value: i / 2},
			Field{Name: "run", Value: i},
		)
	}
	return leaves
}

func concatOf(t *testing.T, items ...Dataset) *ConcatDataset {
	t.Helper()
	c, err := NewConcatDataset(items...)
	if err != nil {
		t.Fatalf("NewConcatDataset failed: %v", err)
	}
	return c
}

func TestConcatLengthAndCumulativeSizes(t *testing.T) {
	leaves := fiveLeaves(t)
	c := concatOf(t, leaves[0], leaves[1], leaves[2], leaves[3], leaves[4])

	if c.Len() != 500 {
		t.Fatalf("expected len 500, got %d", c.Len())
	}
	want := []int{100, 200, 300, 400, 500}
	got := c.CumulativeSizes()
	if len(got) != len(want) {
		t.Fatalf("unexpected cumulative sizes %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cumulative_sizes[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	total := 0
	for _, l := range leaves {
		total += l.Len()
	}
	if c.Len() != total {
		t.Fatalf("concat length %d should equal sum of leaf lengths %d", c.Len(), total)
	}
}

func TestConcatExampleResolvesOwner(t *testing.T) {
	leaves := fiveLeaves(t)
	c := concatOf(t, leaves[0], leaves[1], leaves[2], leaves[3], leaves[4])

	// global 250 lives in leaf 2 at local 50
	s, err := c.Example(250)
	if err != nil {
		t.Fatalf("Example failed: %v", err)
	}
	if s.Data[0] != 2 || s.Data[1] != 50 {
		t.Fatalf("Example(250) resolved to leaf %v local %v, want leaf 2 local 50", s.Data[0], s.Data[1])
	}

	// every valid global index matches a direct leaf lookup
	for _, global := range []int{0, 99, 100, 199, 499} {
		s, err := c.Example(global)
		if err != nil {
			t.Fatalf("Example(%d) failed: %v", global, err)
		}
		leaf := int(s.Data[0])
		local := int(s.Data[1])
		direct, err := leaves[leaf].Example(local)
		if err != nil {
			t.Fatalf("direct Example failed: %v", err)
		}
		if direct.Data[0] != s.Data[0] || direct.Data[1] != s.Data[1] || direct.Target != s.Target {
			t.Fatalf("Example(%d) differs from direct leaf lookup", global)
		}
	}

	if _, err := c.Example(500); err == nil {
		t.Fatalf("expected error for out of range index")
	}
	if _, err := c.Example(-1); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestConcatDescription(t *testing.T) {
	leaves := fiveLeaves(t)
	c := concatOf(t, leaves[0], leaves[1], leaves[2], leaves[3], leaves[4])

	desc := c.Description()
	if desc.Len() != 5 {
		t.Fatalf("expected one description row per leaf, got %d", desc.Len())
	}
	for i := 0; i < 5; i++ {
		v, err := desc.At(i, "run")
		if err != nil {
			t.Fatalf("At failed: %v", err)
		}
		if v != i {
			t.Fatalf("description row %d has run %v, want %d", i, v, i)
		}
	}
	idx := desc.Index()
	for i, v := range idx {
		if v != i {
			t.Fatalf("description index must be reset to 0..n-1, got %v", idx)
		}
	}
}

func TestConcatOfConcatsIsAssociative(t *testing.T) {
	leaves := fiveLeaves(t)
	a, b, cd, d := leaves[0], leaves[1], leaves[2], leaves[3]

	nested := concatOf(t, concatOf(t, a, b), concatOf(t, cd, d))
	flat := concatOf(t, a, b, cd, d)

	if nested.Len() != flat.Len() {
		t.Fatalf("lengths differ: %d vs %d", nested.Len(), flat.Len())
	}
	if len(nested.Datasets()) != 4 {
		t.Fatalf("nested concats must flatten to leaves, got %d datasets", len(nested.Datasets()))
	}
	nc, fc := nested.CumulativeSizes(), flat.CumulativeSizes()
	for i := range fc {
		if nc[i] != fc[i] {
			t.Fatalf("cumulative sizes differ at %d: %v vs %v", i, nc, fc)
		}
	}

	nd, fd := nested.Description(), flat.Description()
	if nd.Len() != fd.Len() {
		t.Fatalf("description row counts differ")
	}
	for i := 0; i < fd.Len(); i++ {
		for _, col := range fd.Columns() {
			nv, err := nd.At(i, col)
			if err != nil {
				t.Fatalf("At failed: %v", err)
			}
			fv, err := fd.At(i, col)
			if err != nil {
				t.Fatalf("At failed: %v", err)
			}
			if nv != fv {
				t.Fatalf("description cell (%d, %s) differs: %v vs %v", i, col, nv, fv)
			}
		}
	}
}

func TestConcatEmptyFails(t *testing.T) {
	_, err := NewConcatDataset()
	if !errors.Is(err, ErrEmptyConcat) {
		t.Fatalf("expected ErrEmptyConcat, got %v", err)
	}
	if err.Error() != "datasets should not be an empty iterable" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestConcatHeterogeneousDescriptions(t *testing.T) {
	a := newLeaf(t, 0, 10, Field{Name: "subject", Value: 1})
	b := newLeaf(t, 1, 10, Field{Name: "run", Value: 2})
	c := concatOf(t, a, b)

	desc := c.Description()
	if len(desc.Columns()) != 2 {
		t.Fatalf("expected union of columns, got %v", desc.Columns())
	}
	// missing fields surface as empty cells
	v, err := desc.At(1, "subject")
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if v != nil {
		t.Fatalf("expected empty cell, got %v", v)
	}
}
