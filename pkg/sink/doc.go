// ABOUTME: Audio sink package
// ABOUTME: Host audio output adapter and host-clock tick conversion

// Package sink adapts canonical decoded PCM to the host audio output
// device. OtoSink plays through ebitengine/oto; Timebase converts local
// monotonic microseconds into the device's native tick domain before a
// deadline is handed to a sink that wants one.
//
// Example:
//
//	s := sink.NewOtoSink()
//	s.Open(format)
//	s.Write(buf.Samples)
package sink
