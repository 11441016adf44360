// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides the Decoder interface and implementations for PCM, Opus, and FLAC
// Package decode turns opaque codec frames into canonical PCM.
//
// Supports PCM (16/24/32-bit), Opus, and FLAC. All decoders implement the
// Decoder interface and output int32 samples. Opus, FLAC, and 24-bit PCM
// land on a common 24-bit-range scale; 16- and 32-bit PCM keep their native
// sample values, so narrowing for playback goes through
// audio.Format.NarrowSample, which branches on codec and bit depth.
//
// Example:
//
//	decoder, err := decode.New(format)
//	samples, err := decoder.Decode(frameBytes)
package decode
