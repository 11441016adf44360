// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 16-bit, 24-bit, and 32-bit PCM decoding
package decode

import (
	"testing"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/protocol"
)

func TestNewPCM(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16}

	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestPCMDecode16Bit(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	input := []byte{0x00, 0x01, 0x02, 0x03}
	output, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if expectedSamples := len(input) / 2; len(output) != expectedSamples {
		t.Errorf("expected %d samples, got %d", expectedSamples, len(output))
	}

	// 0x00, 0x01 -> int16 0x0100 = 256, unchanged
	if expected0 := int32(256); output[0] != expected0 {
		t.Errorf("expected first sample %d, got %d", expected0, output[0])
	}
	// 0x02, 0x03 -> int16 0x0302 = 770, unchanged
	if expected1 := int32(770); output[1] != expected1 {
		t.Errorf("expected second sample %d, got %d", expected1, output[1])
	}
}

func TestPCMDecode16Bit_Negative(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0xFF, 0xFF -> int16 -1, unchanged (not rescaled)
	output, err := decoder.Decode([]byte{0xFF, 0xFF})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if expected := int32(-1); output[0] != expected {
		t.Errorf("expected sample %d, got %d", expected, output[0])
	}
}

func TestPCMDecode32Bit(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 96000, Channels: 1, BitDepth: 32}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// little-endian 0x12345678, must decode unchanged (no rescale)
	input := []byte{0x78, 0x56, 0x34, 0x12}
	output, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if expectedSamples := len(input) / 4; len(output) != expectedSamples {
		t.Errorf("expected %d samples, got %d", expectedSamples, len(output))
	}
	if expected := int32(0x12345678); output[0] != expected {
		t.Errorf("expected sample %#x, got %#x", expected, output[0])
	}
}

func TestPCMDecode32Bit_RejectsMisalignedLength(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 96000, Channels: 1, BitDepth: 32}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := decoder.Decode([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("expected error for length not a multiple of 4")
	}
}

func TestPCMDecode24Bit(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 192000, Channels: 2, BitDepth: 24}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	input := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
	output, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if expectedSamples := len(input) / 3; len(output) != expectedSamples {
		t.Errorf("expected %d samples, got %d", expectedSamples, len(output))
	}

	if expected0 := int32(0x020100); output[0] != expected0 {
		t.Errorf("expected first sample %d, got %d", expected0, output[0])
	}
	if expected1 := int32(0x050403); output[1] != expected1 {
		t.Errorf("expected second sample %d, got %d", expected1, output[1])
	}
}

func TestPCMDecode24Bit_RejectsMisalignedLength(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 192000, Channels: 2, BitDepth: 24}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := decoder.Decode([]byte{0x00, 0x01}); err == nil {
		t.Error("expected error for length not a multiple of 3")
	}
}

func TestNewPCM_InvalidCodec(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecOpus, SampleRate: 48000, Channels: 2, BitDepth: 16}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}
	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 20}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}
	if decoder != nil {
		t.Fatal("expected decoder to be nil for unsupported bit depth")
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	format := audio.Format{Codec: protocol.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16}
	decoder, err := NewPCM(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output, err := decoder.Decode([]byte{})
	if err != nil {
		t.Fatalf("decode failed with empty input: %v", err)
	}
	if len(output) != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", len(output))
	}
}
