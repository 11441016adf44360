// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus frames to canonical int32 samples via gopkg.in/hraban/opus.v2
package decode

import (
	"fmt"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
	"gopkg.in/hraban/opus.v2"
)

// OpusDecoder decodes Opus audio. It is stateful: the underlying libopus
// decoder carries inter-frame history, so one instance must be reused for
// every frame in a stream.
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates an Opus decoder for the given format.
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != protocol.CodecOpus {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{decoder: dec, format: format}, nil
}

// Decode converts one Opus frame to canonical int32 samples. Opus always
// decodes to 16-bit PCM internally; the result is widened to the canonical
// sample range.
func (d *OpusDecoder) Decode(data []byte) ([]int32, error) {
	pcmSize := 5760 * d.format.Channels // max Opus frame size at 48kHz
	pcm16 := make([]int16, pcmSize)

	n, err := d.decoder.Decode(data, pcm16)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	actualSamples := n * d.format.Channels
	pcm32 := make([]int32, actualSamples)
	for i := 0; i < actualSamples; i++ {
		pcm32[i] = audio.SampleFromInt16(pcm16[i])
	}
	return pcm32, nil
}

// Close is a no-op; OpusDecoder holds nothing that needs explicit release.
func (d *OpusDecoder) Close() error {
	return nil
}
