// ABOUTME: Tests for Opus decoder
// ABOUTME: Tests Opus decoder creation, validation, and error plumbing
package decode

import (
	"testing"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
)

func TestNewOpus(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecOpus, SampleRate: 48000, Channels: 2, BitDepth: 16}

	decoder, err := NewOpus(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestNewOpus_InvalidCodec(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16}

	decoder, err := NewOpus(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}
	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}
}

func TestNewOpus_MonoChannel(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecOpus, SampleRate: 48000, Channels: 1, BitDepth: 16}

	decoder, err := NewOpus(format)
	if err != nil {
		t.Fatalf("failed to create mono decoder: %v", err)
	}
	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestOpusDecode_RejectsGarbageFrame(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecOpus, SampleRate: 48000, Channels: 2, BitDepth: 16}
	decoder, err := NewOpus(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := decoder.Decode([]byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Error("expected error decoding a malformed opus frame")
	}
}

func TestOpusClose(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecOpus, SampleRate: 48000, Channels: 2, BitDepth: 16}

	decoder, err := NewOpus(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if err := decoder.Close(); err != nil {
		t.Errorf("expected Close to succeed, got error: %v", err)
	}
}
