package datasets

import (
	"io"
	"testing"
)

// windowSample builds a [2, 3] window whose values start at base.
func windowSample(base float32, target any) Sample {
	data := make([]float32, 6)
	for i := range data {
		data[i] = base + float32(i)
	}
	return Sample{Data: data, Shape: []int{2, 3}, Target: target}
}

func TestMakeWindowBatchFlat(t *testing.T) {
	batch := []Sample{windowSample(0, 1), windowSample(10, 2.5)}

	flat, err := MakeWindowBatchFlat(batch)
	if err != nil {
		t.Fatalf("MakeWindowBatchFlat failed: %v", err)
	}
	if flat.Batch != 2 || flat.Channels != 2 || flat.Samples != 3 {
		t.Fatalf("unexpected dims %d/%d/%d", flat.Batch, flat.Channels, flat.Samples)
	}
	if flat.Inputs[0] != 0 || flat.Inputs[6] != 10 || flat.Inputs[11] != 15 {
		t.Fatalf("unexpected flat layout %v", flat.Inputs)
	}
	if flat.Targets[0] != 1 || flat.Targets[1] != 2.5 {
		t.Fatalf("unexpected targets %v", flat.Targets)
	}

	in, ta, err := flat.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors failed: %v", err)
	}
	if in == nil || ta == nil {
		t.Fatalf("expected non-nil tensors")
	}
}

func TestMakeWindowBatchFlatErrors(t *testing.T) {
	good := windowSample(0, 1)

	bad := windowSample(0, 1)
	bad.Shape = []int{3, 2}
	if _, err := MakeWindowBatchFlat([]Sample{good, bad}); err == nil {
		t.Fatalf("expected error for inconsistent shapes")
	}

	str := windowSample(0, "M")
	if _, err := MakeWindowBatchFlat([]Sample{str}); err == nil {
		t.Fatalf("expected error for non-numeric target")
	}

	short := Sample{Data: make([]float32, 2), Shape: []int{2, 3}, Target: 0}
	if _, err := MakeWindowBatchFlat([]Sample{short}); err == nil {
		t.Fatalf("expected error for truncated data")
	}

	flat, err := MakeWindowBatchFlat(nil)
	if err != nil {
		t.Fatalf("empty batch should not error: %v", err)
	}
	if flat.Batch != 0 {
		t.Fatalf("empty batch should have zero size")
	}
}

func TestNumericTargets(t *testing.T) {
	cases := []struct {
		in   any
		want float32
	}{
		{int(3), 3},
		{int64(4), 4},
		{float64(1.5), 1.5},
		{float32(2.5), 2.5},
		{true, 1},
		{false, 0},
	}
	for _, tc := range cases {
		got, err := numericTarget(tc.in)
		if err != nil {
			t.Fatalf("numericTarget(%v) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("numericTarget(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := numericTarget(nil); err == nil {
		t.Fatalf("expected error for nil target")
	}
	if _, err := numericTarget("M"); err == nil {
		t.Fatalf("expected error for string target")
	}
}

// windowStub serves fixed-shape windows for loader tests.
type windowStub struct{ n int }

func (w *windowStub) Len() int { return w.n }

func (w *windowStub) Example(i int) (Sample, error) {
	return windowSample(float32(i), i%2), nil
}

func TestLoaderEpoch(t *testing.T) {
	l := NewLoader(&windowStub{n: 10}, 4, 1)

	batches := 0
	for {
		_, ins, tas, err := l.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Yield failed: %v", err)
		}
		if len(ins) != 1 || len(tas) != 1 {
			t.Fatalf("expected one input and one target tensor")
		}
		batches++
		if batches > 10 {
			t.Fatalf("Yield never reached EOF")
		}
	}
	if batches != 3 {
		t.Fatalf("expected 3 batches per epoch (4+4+2), got %d", batches)
	}

	// Restart rewinds for another epoch
	if err := l.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if _, _, _, err := l.Yield(); err != nil {
		t.Fatalf("Yield after Restart failed: %v", err)
	}
}

func TestLoaderBatch(t *testing.T) {
	l := NewLoader(&windowStub{n: 10}, 4, 1)

	ins, tas, err := l.Batch([]int{0, 3})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(ins) != 2 || len(ins[0]) != 6 {
		t.Fatalf("unexpected inputs %v", ins)
	}
	if len(tas) != 2 || len(tas[0]) != 1 || tas[1][0] != 1 {
		t.Fatalf("unexpected targets %v", tas)
	}
}

func TestLoaderShuffleIsDeterministic(t *testing.T) {
	a := NewLoader(&windowStub{n: 20}, 5, 3)
	a.Shuffle(9)
	b := NewLoader(&windowStub{n: 20}, 5, 3)
	b.Shuffle(9)

	for i := range a.order {
		if a.order[i] != b.order[i] {
			t.Fatalf("same seed should produce the same order")
		}
	}

	shuffled := false
	for i, v := range a.order {
		if v != i {
			shuffled = true
			break
		}
	}
	if !shuffled {
		t.Fatalf("shuffle left the order untouched")
	}
}
