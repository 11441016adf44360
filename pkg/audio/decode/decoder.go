// ABOUTME: Decoder interface and factory
// ABOUTME: Common interface for all audio decoders plus codec dispatch
package decode

import (
	"fmt"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
)

// Decoder decodes one codec's encoded frames to canonical PCM int32
// samples. The Opus decoder is stateful; the PCM and FLAC decoders keep no
// state between frames.
type Decoder interface {
	// Decode converts one encoded frame to interleaved PCM samples.
	Decode(data []byte) ([]int32, error)

	// Close releases decoder resources.
	Close() error
}

// New dispatches to the decoder for format.Codec.
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case protocol.CodecPCM:
		return NewPCM(format)
	case protocol.CodecOpus:
		return NewOpus(format)
	case protocol.CodecFLAC:
		return NewFLAC(format)
	default:
		return nil, fmt.Errorf("decode: unsupported codec %q", format.Codec)
	}
}
