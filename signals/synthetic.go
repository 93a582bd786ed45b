package signals

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SyntheticConfig controls synthetic recording generation. Zero values get
// sensible defaults from Synthetic.
type SyntheticConfig struct {
	// Channels is the number of signal channels (default 2).
	Channels int

	// Samples is the recording length in samples (default 1000).
	Samples int

	// SampleRate in Hz (default 100).
	SampleRate float64

	// Seed for the noise generator. The same seed reproduces the same
	// recording.
	Seed int64

	// EventSpacing places an event marker every EventSpacing samples,
	// starting at EventSpacing (default 100). Zero spacing with a non-empty
	// EventCodes still defaults; set EventCodes to nil for no events.
	EventSpacing int

	// EventCodes are cycled over the generated markers (default [1 2]).
	EventCodes []int
}

// Synthetic generates a deterministic noise recording with periodic event
// markers. It stands in for externally fetched data in tests and demos.
func Synthetic(cfg SyntheticConfig) (*Recording, error) {
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	if cfg.Samples <= 0 {
		cfg.Samples = 1000
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 100
	}
	if cfg.EventSpacing <= 0 {
		cfg.EventSpacing = 100
	}
	if cfg.EventCodes == nil {
		cfg.EventCodes = []int{1, 2}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	data := mat.NewDense(cfg.Channels, cfg.Samples, nil)
	for ch := 0; ch < cfg.Channels; ch++ {
		// each channel: Gaussian noise over a weak channel-specific rhythm
		freq := 8.0 + 2.0*float64(ch)
		for i := 0; i < cfg.Samples; i++ {
			t := float64(i) / cfg.SampleRate
			data.Set(ch, i, rng.NormFloat64()+0.5*math.Sin(2*math.Pi*freq*t))
		}
	}

	names := make([]string, cfg.Channels)
	for ch := range names {
		names[ch] = fmt.Sprintf("ch%d", ch)
	}

	var events []Event
	if len(cfg.EventCodes) > 0 {
		k := 0
		for s := cfg.EventSpacing; s < cfg.Samples; s += cfg.EventSpacing {
			events = append(events, Event{Sample: s, Code: cfg.EventCodes[k%len(cfg.EventCodes)]})
			k++
		}
	}

	return NewRecording(data, Info{ChannelNames: names, SampleRate: cfg.SampleRate}, events)
}
