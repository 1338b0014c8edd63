// internal/tui/sound.go
//
// Capture beep. Audio is optional: when the speaker cannot be opened the
// game runs silently.

package tui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

const (
	sampleRate = beep.SampleRate(44100)
	beepFreq   = 880
	beepLength = 60 * time.Millisecond
)

// Sound plays short tones through the system speaker.
type Sound struct {
	ok bool
}

// NewSound opens the speaker. The returned Sound is always usable.
func NewSound() *Sound {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn().Err(err).Msg("audio unavailable")
		return &Sound{}
	}
	return &Sound{ok: true}
}

// Capture plays the capture tone. Safe on a nil or silent Sound.
func (s *Sound) Capture() {
	if s == nil || !s.ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, beepFreq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(beepLength), sine))
}

// Close releases the speaker.
func (s *Sound) Close() {
	if s != nil && s.ok {
		speaker.Close()
	}
}
