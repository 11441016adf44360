// ABOUTME: Binary audio/artwork/visualizer frame encoding
// ABOUTME: Wire layout is a 1-byte kind, an 8-byte big-endian timestamp, then payload
package protocol

import (
	"encoding/binary"
	"fmt"
)

// FrameKind discriminates a BinaryFrame's payload.
type FrameKind uint8

const (
	FrameKindAudioChunkLegacy FrameKind = 0
	FrameKindAudioChunk       FrameKind = 1
	FrameKindArtworkChannel0  FrameKind = 4
	FrameKindArtworkChannel1  FrameKind = 5
	FrameKindArtworkChannel2  FrameKind = 6
	FrameKindArtworkChannel3  FrameKind = 7
	FrameKindVisualizerData   FrameKind = 8
)

// IsAudioChunk reports whether kind is either of the two audio-chunk
// discriminator values carried across Resonate server history.
func (k FrameKind) IsAudioChunk() bool {
	return k == FrameKindAudioChunk || k == FrameKindAudioChunkLegacy
}

// ArtworkChannel returns the artwork channel index (0-3) for an artwork
// frame kind, or -1 if k is not an artwork kind.
func (k FrameKind) ArtworkChannel() int {
	if k >= FrameKindArtworkChannel0 && k <= FrameKindArtworkChannel3 {
		return int(k - FrameKindArtworkChannel0)
	}
	return -1
}

// valid reports whether k is one of the enumerated binary frame kinds.
func (k FrameKind) valid() bool {
	switch k {
	case FrameKindAudioChunkLegacy, FrameKindAudioChunk,
		FrameKindArtworkChannel0, FrameKindArtworkChannel1, FrameKindArtworkChannel2, FrameKindArtworkChannel3,
		FrameKindVisualizerData:
		return true
	default:
		return false
	}
}

const minFrameLen = 9

// BinaryFrame is one decoded binary message: a kind discriminator, the
// server-domain timestamp at which the frame was produced, and its raw
// payload.
type BinaryFrame struct {
	Kind         FrameKind
	ServerTSMicros int64
	Payload      []byte
}

// EncodeBinaryFrame serializes a frame to the wire layout:
// uint8 kind || int64 big-endian server_ts_µs || payload.
func EncodeBinaryFrame(kind FrameKind, serverTSMicros int64, payload []byte) []byte {
	out := make([]byte, minFrameLen+len(payload))
	out[0] = byte(kind)
	binary.BigEndian.PutUint64(out[1:9], uint64(serverTSMicros))
	copy(out[9:], payload)
	return out
}

// DecodeBinaryFrame parses a wire frame. It rejects frames shorter than 9
// bytes, frames carrying a negative timestamp, and frames whose kind byte
// falls outside the enumerated FrameKind set.
func DecodeBinaryFrame(data []byte) (BinaryFrame, error) {
	if len(data) < minFrameLen {
		return BinaryFrame{}, fmt.Errorf("protocol: binary frame too short: %d bytes", len(data))
	}

	kind := FrameKind(data[0])
	if !kind.valid() {
		return BinaryFrame{}, fmt.Errorf("protocol: binary frame has unknown kind %d", data[0])
	}

	ts := int64(binary.BigEndian.Uint64(data[1:9]))
	if ts < 0 {
		return BinaryFrame{}, fmt.Errorf("protocol: binary frame has negative timestamp %d", ts)
	}

	payload := make([]byte, len(data)-minFrameLen)
	copy(payload, data[minFrameLen:])

	return BinaryFrame{
		Kind:           kind,
		ServerTSMicros: ts,
		Payload:        payload,
	}, nil
}
