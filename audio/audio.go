// Package audio plays the cue at each step boundary through the system
// speaker.
package audio

import (
	"IntervalTimers/config"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
)

// SampleRate is the speaker rate; cue files are resampled to it.
const SampleRate beep.SampleRate = 44100

// ErrDisabled is returned by PlayCue when no speaker is available.
var ErrDisabled = errors.New("audio disabled")

// Player plays a buffered cue. It is safe for concurrent use.
type Player struct {
	mu      sync.Mutex
	cue     *beep.Buffer
	gap     int
	volume  float64
	enabled bool
	logger  *slog.Logger
}

var initSpeaker = sync.OnceValue(func() error {
	return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
})

// NewPlayer prepares the cue described by cfg. Speaker or decode failures
// are logged and leave a disabled player, so the countdown still works.
func NewPlayer(cfg config.AudioConfig, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{logger: logger, volume: cfg.Volume, gap: SampleRate.N(120 * time.Millisecond)}
	if !cfg.Enabled {
		logger.Info("audio disabled by config")
		return p
	}

	if err := initSpeaker(); err != nil {
		logger.Warn("audio disabled: failed to initialize speaker", "error", err)
		return p
	}

	buf, err := loadCue(cfg)
	if err != nil {
		logger.Warn("audio disabled: failed to load cue", "file", cfg.File, "error", err)
		return p
	}
	p.cue = buf
	p.enabled = true
	return p
}

func loadCue(cfg config.AudioConfig) (*beep.Buffer, error) {
	if cfg.File != "" {
		return decodeFile(cfg.File)
	}
	return toneBuffer(cfg.FrequencyHz, cfg.Length)
}

func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Resample(4, format.SampleRate, SampleRate, streamer))
	return buffer, nil
}

func toneBuffer(freq float64, length time.Duration) (*beep.Buffer, error) {
	if freq <= 0 || length <= 0 {
		return nil, fmt.Errorf("invalid tone %.0fHz for %s", freq, length)
	}
	tone, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, err
	}
	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Take(SampleRate.N(length), tone))
	return buffer, nil
}

// PlayCue plays the cue once, or twice in a row for the last step.
func (p *Player) PlayCue(step int, last bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return ErrDisabled
	}

	var s beep.Streamer = p.cue.Streamer(0, p.cue.Len())
	if last {
		s = beep.Seq(s, beep.Silence(p.gap), p.cue.Streamer(0, p.cue.Len()))
	}
	if p.volume != 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: p.volume}
	}
	speaker.Play(s)
	p.logger.Debug("cue played", "step", step, "last", last)
	return nil
}

// Enabled reports whether cues reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		speaker.Clear()
	}
	p.enabled = false
}

// Silent is a cue that does nothing, used with --mute.
type Silent struct{}

// PlayCue implements timer.Cue.
func (Silent) PlayCue(int, bool) error { return nil }
