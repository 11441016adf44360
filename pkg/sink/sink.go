// ABOUTME: Audio sink interface
// ABOUTME: A byte-stream destination with a known sample-rate contract, fed canonical PCM
package sink

import "github.com/resonatekit/client/pkg/audio"

// Sink is the host audio output device. It is opened once per stream format
// and fed canonical int32 samples by the scheduler's emit loop; the
// callback-driven write path never performs blocking work beyond a copy.
type Sink interface {
	// Open configures the sink for format. Calling Open while already open
	// reconfigures it, closing any prior output first.
	Open(format audio.Format) error

	// Write enqueues interleaved canonical samples for playback. It does
	// not block on playback completing.
	Write(samples []int32) error

	// SetVolume sets linear gain in [0.0, 1.0].
	SetVolume(volume float64)

	// SetMuted silences output without discarding the volume setting.
	SetMuted(muted bool)

	// Close releases the underlying device. Idempotent.
	Close() error
}
