// ABOUTME: Audio type definitions
// ABOUTME: Defines the canonical audio format and decoded sample buffer, plus sample conversions
package audio

import (
	"time"

	"github.com/resonatekit/client/pkg/protocol"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes one stream's audio encoding, as advertised in
// stream/start. It is immutable for the lifetime of a stream.
type Format struct {
	Codec       protocol.Codec
	SampleRate  int
	Channels    int
	BitDepth    int
	CodecHeader []byte // raw codec-specific header, e.g. FLAC STREAMINFO
}

// BytesPerFrame is channels * ceil(bit_depth/8), the wire-advertised frame
// size before decode-time normalization.
func (f Format) BytesPerFrame() int {
	return f.Channels * ((f.BitDepth + 7) / 8)
}

// CanonicalBytesPerFrame is the frame size downstream of decode, where every
// codec's output has been normalized to 32-bit signed samples.
func (f Format) CanonicalBytesPerFrame() int {
	return f.Channels * 4
}

// Buffer is one decoded chunk of canonical 32-bit PCM samples, tagged with
// its source server timestamp and local play deadline.
type Buffer struct {
	ServerTSMicros int64     // source server timestamp (microseconds)
	PlayAt         time.Time // local play deadline
	Samples        []int32   // interleaved PCM samples, 32-bit canonical
	Format         Format
}

// SampleToInt16 converts a sample on the shared 24-bit-range scale to 16-bit
// (for sinks that only accept 16-bit playback) by dropping its low 8 bits.
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts a 16-bit sample onto the shared 24-bit-range
// scale by shifting it left 8 bits.
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit packs a sample's low 24 bits into 24-bit little-endian
// bytes, discarding the high 8 bits.
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit unpacks 24-bit little-endian bytes to a sign-extended
// 32-bit sample.
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// SampleFromBitDepth normalizes a raw signed sample carrying bitDepth bits
// of precision into the canonical 24-bit-range int32 container used
// throughout decode and scheduling, regardless of the codec's native depth.
func SampleFromBitDepth(raw int32, bitDepth int) int32 {
	shift := 24 - bitDepth
	switch {
	case shift > 0:
		return raw << uint(shift)
	case shift < 0:
		return raw >> uint(-shift)
	default:
		return raw
	}
}

// NarrowSample converts one of f's canonical samples to 16-bit for sinks
// that only accept 16-bit playback. PCM decode is the identity function on
// sample bytes, so PCM's canonical samples live at their native bit depth;
// every other codec's canonical samples live on the shared 24-bit-range
// scale produced by SampleFromInt16/SampleFromBitDepth. The two domains
// narrow differently.
func (f Format) NarrowSample(sample int32) int16 {
	if f.Codec != protocol.CodecPCM {
		return SampleToInt16(sample)
	}
	switch f.BitDepth {
	case 16:
		return int16(sample)
	case 32:
		return int16(sample >> 16)
	default: // 24-bit PCM already sits on the shared 24-bit-range scale
		return SampleToInt16(sample)
	}
}
