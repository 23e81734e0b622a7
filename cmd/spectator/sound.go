package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tones plays short sine cues. Without an audio device it stays silent.
type tones struct {
	enabled bool
}

func newTones(mute bool) *tones {
	if mute {
		return &tones{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &tones{}
	}
	return &tones{enabled: true}
}

var cueTones = map[cue]struct {
	freq float64
	dur  time.Duration
}{
	cueEat:   {880, 50 * time.Millisecond},
	cueScare: {220, 200 * time.Millisecond},
	cueLay:   {440, 40 * time.Millisecond},
}

func (t *tones) play(c cue) {
	if !t.enabled {
		return
	}
	tone, ok := cueTones[c]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, tone.freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(tone.dur), sine))
}

func (t *tones) close() {
	if t.enabled {
		speaker.Close()
	}
}
