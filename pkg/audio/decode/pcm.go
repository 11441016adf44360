// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-, 24-, and 32-bit PCM audio to canonical int32 samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
)

// PCMDecoder decodes raw PCM audio. It is stateless; a single instance is
// reused across every chunk in a stream.
type PCMDecoder struct {
	bitDepth int
}

// NewPCM creates a PCM decoder for the given format.
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != protocol.CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 && format.BitDepth != 32 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24, 32)", format.BitDepth)
	}

	return &PCMDecoder{bitDepth: format.BitDepth}, nil
}

// Decode converts PCM bytes to canonical int32 samples. 16- and 32-bit PCM
// are the identity function on sample values: each sample is widened into
// the int32 container by sign extension only, with no rescaling, so the
// values round-trip exactly. 24-bit PCM unpacks 3-byte little-endian signed
// samples into int32 (widening, not rescaling), failing with an error if
// the input is not a whole number of samples.
func (d *PCMDecoder) Decode(data []byte) ([]int32, error) {
	switch d.bitDepth {
	case 24:
		if len(data)%3 != 0 {
			return nil, fmt.Errorf("decode: invalid 24-bit PCM frame length %d (must be a multiple of 3)", len(data))
		}
		numSamples := len(data) / 3
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
		return samples, nil

	case 32:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("decode: invalid 32-bit PCM frame length %d (must be a multiple of 4)", len(data))
		}
		numSamples := len(data) / 4
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			samples[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return samples, nil

	default: // 16
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("decode: invalid 16-bit PCM frame length %d (must be a multiple of 2)", len(data))
		}
		numSamples := len(data) / 2
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = int32(sample16)
		}
		return samples, nil
	}
}

// Close is a no-op; PCMDecoder holds no resources.
func (d *PCMDecoder) Close() error {
	return nil
}
