package windows

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/eegml/eegset/datasets"
	"github.com/eegml/eegset/signals"
)

// rampRecording builds a 2-channel recording whose values encode the sample
// index, with the given events.
func rampRecording(t *testing.T, samples int, events []signals.Event) *signals.Recording {
	t.Helper()
	vals := make([]float64, 2*samples)
	for i := 0; i < samples; i++ {
		vals[i] = float64(i)
		vals[samples+i] = float64(1000 + i)
	}
	rec, err := signals.NewRecording(
		mat.NewDense(2, samples, vals),
		signals.Info{ChannelNames: []string{"c0", "c1"}, SampleRate: 100},
		events,
	)
	require.NoError(t, err)
	return rec
}

func concatOver(t *testing.T, recs ...*signals.Recording) *datasets.ConcatDataset {
	t.Helper()
	items := make([]datasets.Dataset, len(recs))
	for i, rec := range recs {
		bd, err := datasets.NewBaseDataset(rec, datasets.NewDescription(
			datasets.Field{Name: "run", Value: i},
		), "")
		require.NoError(t, err)
		items[i] = bd
	}
	cds, err := datasets.NewConcatDataset(items...)
	require.NoError(t, err)
	return cds
}

func TestFromEventsSpans(t *testing.T) {
	// trials: [300, 600) and [600, 1000)
	rec := rampRecording(t, 1000, []signals.Event{{Sample: 300, Code: 1}, {Sample: 600, Code: 2}})
	cds := concatOver(t, rec)

	out, err := FromEvents(cds, Config{WindowSize: 100, WindowStride: 100})
	require.NoError(t, err)

	// 3 windows in the first trial, 4 in the second
	require.Equal(t, 7, out.Len())

	wantSpans := []datasets.WindowSpan{
		{Number: 0, Start: 0, Stop: 100},
		{Number: 1, Start: 100, Stop: 200},
		{Number: 2, Start: 200, Stop: 300},
		{Number: 0, Start: 0, Stop: 100},
		{Number: 1, Start: 100, Stop: 200},
		{Number: 2, Start: 200, Stop: 300},
		{Number: 3, Start: 300, Stop: 400},
	}
	wantTargets := []int{1, 1, 1, 2, 2, 2, 2}
	for i := range wantSpans {
		s, err := out.Example(i)
		require.NoError(t, err)
		require.Equal(t, wantSpans[i], s.Window, "window %d", i)
		require.Equal(t, wantTargets[i], s.Target, "window %d", i)
		require.Equal(t, []int{2, 100}, s.Shape)
	}

	// window data comes from the right segment of the recording:
	// window 4 is trial 2 (onset 600), trial-local [100, 200)
	s, err := out.Example(4)
	require.NoError(t, err)
	require.Equal(t, float32(700), s.Data[0])
	require.Equal(t, float32(1799), s.Data[199])
}

func TestFromEventsRightAlignedTail(t *testing.T) {
	// one trial [300, 600): size 100, stride 150 leaves a 50-sample tail
	rec := rampRecording(t, 600, []signals.Event{{Sample: 300, Code: 5}})
	cds := concatOver(t, rec)

	out, err := FromEvents(cds, Config{WindowSize: 100, WindowStride: 150})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	last, err := out.Example(2)
	require.NoError(t, err)
	require.Equal(t, datasets.WindowSpan{Number: 2, Start: 200, Stop: 300}, last.Window)
	// right-aligned: starts at recording sample 500
	require.Equal(t, float32(500), last.Data[0])

	// with DropLast the tail is discarded
	dropped, err := FromEvents(cds, Config{WindowSize: 100, WindowStride: 150, DropLast: true})
	require.NoError(t, err)
	require.Equal(t, 2, dropped.Len())
}

func TestFromEventsTrialSizeAndOffsets(t *testing.T) {
	rec := rampRecording(t, 1000, []signals.Event{{Sample: 100, Code: 1}, {Sample: 500, Code: 2}})
	cds := concatOver(t, rec)

	// fixed 200-sample trials starting 50 samples after each onset
	out, err := FromEvents(cds, Config{TrialStartOffset: 50, TrialSize: 200, WindowSize: 150})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	s, err := out.Example(0)
	require.NoError(t, err)
	// trial 1: [150, 300), window right-aligned rule does not apply to the
	// first full window; it starts at the trial start
	require.Equal(t, float32(150), s.Data[0])
	require.Equal(t, datasets.WindowSpan{Number: 0, Start: 0, Stop: 150}, s.Window)
}

func TestFromEventsMetadata(t *testing.T) {
	rec := rampRecording(t, 600, []signals.Event{{Sample: 200, Code: 3}, {Sample: 400, Code: 4}})
	cds := concatOver(t, rec)

	out, err := FromEvents(cds, Config{WindowSize: 100, WindowStride: 100})
	require.NoError(t, err)

	md, err := out.Metadata()
	require.NoError(t, err)
	require.Equal(t, out.Len(), md.Len())
	require.True(t, md.HasColumn(signals.ColTarget))
	require.True(t, md.HasColumn("run"))

	targets, err := md.Col(signals.ColTarget)
	require.NoError(t, err)
	require.Equal(t, []any{3, 3, 4, 4}, targets)
}

func TestFromEventsErrors(t *testing.T) {
	noEvents := rampRecording(t, 300, nil)
	_, err := FromEvents(concatOver(t, noEvents), Config{WindowSize: 100})
	require.Error(t, err)

	rec := rampRecording(t, 300, []signals.Event{{Sample: 100, Code: 1}})
	_, err = FromEvents(concatOver(t, rec), Config{WindowSize: 500})
	require.ErrorContains(t, err, "exceeds trial length")
}

func TestFixedLength(t *testing.T) {
	rec := rampRecording(t, 400, nil)
	bd, err := datasets.NewBaseDataset(rec, datasets.NewDescription(
		datasets.Field{Name: "age", Value: 48},
	), "age")
	require.NoError(t, err)
	cds, err := datasets.NewConcatDataset(bd)
	require.NoError(t, err)

	out, err := FixedLength(cds, Config{WindowSize: 100, WindowStride: 100})
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())

	// every window is labeled with the description target
	for i := 0; i < out.Len(); i++ {
		s, err := out.Example(i)
		require.NoError(t, err)
		require.Equal(t, 48, s.Target)
	}

	md, err := out.Metadata()
	require.NoError(t, err)
	require.Equal(t, 4, md.Len())
}

func TestWindowedConcatSplits(t *testing.T) {
	recA := rampRecording(t, 600, []signals.Event{{Sample: 200, Code: 1}})
	recB := rampRecording(t, 600, []signals.Event{{Sample: 200, Code: 2}})
	cds := concatOver(t, recA, recB)

	out, err := FromEvents(cds, Config{WindowSize: 100, WindowStride: 100})
	require.NoError(t, err)
	require.Len(t, out.Datasets(), 2)

	splits, err := out.Split("run")
	require.NoError(t, err)
	require.Len(t, splits, 2)
	require.Equal(t, out.Len(), splits["0"].Len()+splits["1"].Len())
}
