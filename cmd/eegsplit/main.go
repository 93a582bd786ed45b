package main

// Demo command that walks the dataset layer end to end: synthesize a few
// multi-channel recordings, wrap them with descriptions, concatenate, split
// by subject, cut event-aligned windows, aggregate window metadata, train
// the reference MLP on the windows, and plot one window to a PNG.
//
// Usage:
//   go run ./cmd/eegsplit -subjects 3 -runs 2 -window 100 -out window.png

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/eegml/eegset/datasets"
	"github.com/eegml/eegset/mlp"
	"github.com/eegml/eegset/signals"
	"github.com/eegml/eegset/windows"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func main() {
	subjects := flag.Int("subjects", 3, "number of synthetic subjects")
	runs := flag.Int("runs", 2, "recordings per subject")
	channels := flag.Int("channels", 4, "channels per recording")
	samples := flag.Int("samples", 1200, "samples per recording")
	winSize := flag.Int("window", 100, "window size in samples")
	winStride := flag.Int("stride", 100, "window stride in samples")
	epochs := flag.Int("epochs", 5, "MLP training epochs")
	seed := flag.Int64("seed", 42, "base seed for synthetic data")
	out := flag.String("out", "window.png", "output PNG for the window plot")
	flag.Parse()

	// Build one described dataset per subject/run pair.
	var all []datasets.Dataset
	for s := 0; s < *subjects; s++ {
		for r := 0; r < *runs; r++ {
			rec, err := signals.Synthetic(signals.SyntheticConfig{
				Channels: *channels,
				Samples:  *samples,
				Seed:     *seed + int64(s*(*runs)+r),
			})
			if err != nil {
				log.Fatalf("failed to synthesize recording: %v", err)
			}
			desc := datasets.NewDescription(
				datasets.Field{Name: "subject", Value: s},
				datasets.Field{Name: "run", Value: r},
				datasets.Field{Name: "age", Value: 20 + 3*s},
				datasets.Field{Name: "pathological", Value: s%2 == 0},
			)
			bd, err := datasets.NewBaseDataset(rec, desc, "")
			if err != nil {
				log.Fatalf("failed to wrap recording: %v", err)
			}
			all = append(all, bd)
		}
	}

	concat, err := datasets.NewConcatDataset(all...)
	if err != nil {
		log.Fatalf("failed to concatenate: %v", err)
	}
	fmt.Printf("Concatenated %d recordings, %d samples total\n", len(concat.Datasets()), concat.Len())
	fmt.Printf("Cumulative sizes: %v\n", concat.CumulativeSizes())

	firstRec := concat.Datasets()[0].(*datasets.BaseDataset).Source.(*signals.Recording)
	for ch := 0; ch < firstRec.NumChannels(); ch++ {
		mean, std, err := firstRec.ChannelStats(ch)
		if err != nil {
			log.Fatalf("channel stats: %v", err)
		}
		fmt.Printf("  %s: mean=%.3f std=%.3f\n", firstRec.Info.ChannelNames[ch], mean, std)
	}

	// Split by subject.
	splits, err := concat.Split("subject")
	if err != nil {
		log.Fatalf("failed to split by subject: %v", err)
	}
	keys := make([]string, 0, len(splits))
	for k := range splits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("Subject %s: %d recordings, %d samples\n", k, len(splits[k].Datasets()), splits[k].Len())
	}

	// Window around events and aggregate metadata.
	wcfg := windows.Config{WindowSize: *winSize, WindowStride: *winStride}
	windowed, err := windows.FromEvents(concat, wcfg)
	if err != nil {
		log.Fatalf("failed to window: %v", err)
	}
	md, err := windowed.Metadata()
	if err != nil {
		log.Fatalf("failed to aggregate metadata: %v", err)
	}
	fmt.Printf("Windowed: %d windows, metadata columns %v\n", windowed.Len(), md.Columns())

	// Train the reference MLP on the windows for a few epochs.
	loader := datasets.NewLoader(windowed, 32, *seed)
	model, err := mlp.NewModel(mlp.Config{
		InputDim:    *channels * *winSize,
		HiddenSizes: []int{32},
		Epochs:      *epochs,
		BatchSize:   32,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatalf("failed to build model: %v", err)
	}

	holdN := min(32, windowed.Len())
	holdIdx := make([]int, holdN)
	for i := range holdIdx {
		holdIdx[i] = i
	}
	holdIn, holdTa, err := loader.Batch(holdIdx)
	if err != nil {
		log.Fatalf("failed to read holdout batch: %v", err)
	}
	before := mse(model, holdIn, holdTa)
	if err := model.Train(loader); err != nil {
		log.Fatalf("training failed: %v", err)
	}
	after := mse(model, holdIn, holdTa)
	fmt.Printf("MLP holdout MSE: %.4f -> %.4f\n", before, after)

	// Plot the first window's channels.
	if err := plotWindow(windowed, firstRec.Info, *out); err != nil {
		log.Fatalf("failed to plot window: %v", err)
	}
	fmt.Printf("Wrote %s\n", *out)
}

func mse(model *mlp.Model, inputs, targets [][]float32) float64 {
	preds, err := model.PredictBatch(inputs)
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}
	var sum float64
	var n int
	for i := range preds {
		for j := range preds[i] {
			d := float64(preds[i][j] - targets[i][j])
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// plotWindow renders every channel of the first window as a line plot.
func plotWindow(ds datasets.Dataset, info signals.Info, path string) error {
	s, err := ds.Example(0)
	if err != nil {
		return err
	}
	channels, width := s.Shape[0], s.Shape[1]

	p := plot.New()
	p.Title.Text = "First window"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	for ch := 0; ch < channels; ch++ {
		xys := make(plotter.XYs, width)
		for i := 0; i < width; i++ {
			xys[i].X = float64(i)
			// channels are stacked with an offset so they stay readable
			xys[i].Y = float64(s.Data[ch*width+i]) + float64(ch)*5
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		p.Add(line)
		if ch < len(info.ChannelNames) {
			p.Legend.Add(info.ChannelNames[ch], line)
		}
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
