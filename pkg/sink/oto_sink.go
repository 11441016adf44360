// ABOUTME: oto-backed audio sink
// ABOUTME: Feeds a persistent oto player through an io.Pipe, applying software volume/mute
package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/resonatekit/client/pkg/audio"
)

// OtoSink plays canonical int32 samples through the host's default audio
// device via ebitengine/oto. oto only accepts 16-bit PCM, so samples are
// narrowed on write; volume and mute are applied in the canonical domain
// before narrowing to preserve headroom.
type OtoSink struct {
	mu sync.Mutex

	otoCtx *oto.Context
	player *oto.Player
	pw     *io.PipeWriter

	format audio.Format
	volume float64
	muted  bool
	open   bool
}

// NewOtoSink creates a sink with full volume and no output format yet
// configured; call Open before Write.
func NewOtoSink() *OtoSink {
	return &OtoSink{volume: 1.0}
}

// Open configures oto for format and starts a persistent player fed by an
// in-process pipe. Reconfiguring via a second Open call closes the prior
// context first.
func (s *OtoSink) Open(format audio.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		s.closeLocked()
	}

	opts := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(opts)
	if err != nil {
		return fmt.Errorf("sink: create oto context: %w", err)
	}
	<-readyChan

	pr, pw := io.Pipe()
	player := otoCtx.NewPlayer(pr)
	player.Play()

	s.otoCtx = otoCtx
	s.player = player
	s.pw = pw
	s.format = format
	s.open = true

	log.Printf("audio sink opened: %dHz, %d channels, %d-bit", format.SampleRate, format.Channels, format.BitDepth)
	return nil
}

// Write narrows canonical int32 samples to 16-bit, applies volume/mute, and
// pushes them into the pipe feeding the player. The pipe has no buffer of
// its own, so Write blocks until the player has read all of the bytes;
// it never performs device I/O directly.
func (s *OtoSink) Write(samples []int32) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return fmt.Errorf("sink: write before open")
	}
	pw := s.pw
	format := s.format
	multiplier := volumeMultiplier(s.volume, s.muted)
	s.mu.Unlock()

	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		scaled := int16(float64(format.NarrowSample(sample)) * multiplier)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(scaled))
	}

	if _, err := pw.Write(out); err != nil {
		return fmt.Errorf("sink: write to player: %w", err)
	}
	return nil
}

// SetVolume sets linear gain in [0.0, 1.0], clamping out-of-range input.
func (s *OtoSink) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
}

// SetMuted silences output without discarding the volume setting.
func (s *OtoSink) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// Close suspends the oto context and closes the feeding pipe. Idempotent.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *OtoSink) closeLocked() {
	if !s.open {
		return
	}
	if s.pw != nil {
		s.pw.Close()
	}
	if s.otoCtx != nil {
		s.otoCtx.Suspend()
	}
	s.open = false
}

func volumeMultiplier(volume float64, muted bool) float64 {
	if muted {
		return 0
	}
	return volume
}
