// ABOUTME: FLAC audio decoder
// ABOUTME: Wraps each wire frame in a minimal FLAC container so mewkiz/flac can decode it standalone
package decode

import (
	"bytes"
	"fmt"

	"github.com/mewkiz/flac"
	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
)

const streamInfoLen = 34

// FLACDecoder decodes FLAC frames delivered one at a time over the wire.
//
// The server sends each encoded frame independently, preceded once (on
// stream/start) by a raw 34-byte STREAMINFO block in codec_header.
// mewkiz/flac only exposes a stream decoder, so each call to Decode
// prepends the "fLaC" marker and that STREAMINFO block ahead of the frame
// bytes, synthesizing a minimal single-frame FLAC file, and pulls exactly
// one frame out of it.
type FLACDecoder struct {
	format     audio.Format
	streamInfo []byte
}

// NewFLAC creates a FLAC decoder for the given format. format.CodecHeader
// must be the raw 34-byte STREAMINFO block carried in stream/start.
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != protocol.CodecFLAC {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	if len(format.CodecHeader) != streamInfoLen {
		return nil, fmt.Errorf("flac: codec_header must carry a %d-byte STREAMINFO block, got %d bytes", streamInfoLen, len(format.CodecHeader))
	}

	streamInfo := make([]byte, streamInfoLen)
	copy(streamInfo, format.CodecHeader)

	return &FLACDecoder{format: format, streamInfo: streamInfo}, nil
}

// Decode converts one FLAC frame to canonical int32 samples.
func (d *FLACDecoder) Decode(data []byte) ([]int32, error) {
	container := d.buildContainer(data)

	stream, err := flac.Decode(bytes.NewReader(container))
	if err != nil {
		return nil, fmt.Errorf("flac: decode stream: %w", err)
	}
	defer stream.Close()

	fr, err := stream.ParseNext()
	if err != nil {
		return nil, fmt.Errorf("flac: parse frame: %w", err)
	}

	bitDepth := int(stream.Info.BitsPerSample)
	channels := len(fr.Subframes)
	if channels == 0 {
		return nil, fmt.Errorf("flac: frame has no subframes")
	}
	numSamples := len(fr.Subframes[0].Samples)

	out := make([]int32, 0, numSamples*channels)
	for i := 0; i < numSamples; i++ {
		for ch := 0; ch < channels; ch++ {
			out = append(out, audio.SampleFromBitDepth(fr.Subframes[ch].Samples[i], bitDepth))
		}
	}
	return out, nil
}

// buildContainer prepends the FLAC stream marker and a single
// last-metadata-block STREAMINFO block ahead of one raw frame's bytes.
func (d *FLACDecoder) buildContainer(frameBytes []byte) []byte {
	out := make([]byte, 0, 4+4+len(d.streamInfo)+len(frameBytes))
	out = append(out, 'f', 'L', 'a', 'C')

	header := [4]byte{
		0x80, // last-metadata-block flag set, block type 0 (STREAMINFO)
		byte(streamInfoLen >> 16),
		byte(streamInfoLen >> 8),
		byte(streamInfoLen),
	}
	out = append(out, header[:]...)
	out = append(out, d.streamInfo...)
	out = append(out, frameBytes...)
	return out
}

// Close releases decoder resources. FLACDecoder holds none between frames.
func (d *FLACDecoder) Close() error {
	return nil
}
