// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio defines the canonical audio types shared by the decode
// pipeline, scheduler, and sink: the stream Format advertised by
// stream/start, the decoded sample Buffer, and conversions between 16-bit,
// 24-bit, and the canonical 32-bit sample representation.
//
// Example:
//
//	format := audio.Format{
//	    Codec:      protocol.CodecPCM,
//	    SampleRate: 48000,
//	    Channels:   2,
//	    BitDepth:   24,
//	}
//	sample32 := audio.SampleFrom24Bit(raw)
package audio
