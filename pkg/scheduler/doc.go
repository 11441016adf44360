// ABOUTME: Timestamp-ordered playback scheduling package
// ABOUTME: Orders decoded PCM by play-out instant and tracks sink back-pressure

// Package scheduler orders decoded PCM chunks by their target play-out
// instant and emits them on a fixed tick inside a tolerance window,
// dropping chunks that arrive too late or overflow the queue. BufferManager
// tracks bytes in flight toward the audio sink for back-pressure decisions.
//
// Example:
//
//	sched := scheduler.New(clockModel, 0)
//	sched.Start()
//	sched.Schedule(buf)
//	for chunk := range sched.Emitted() {
//	    sink.Write(chunk.Samples)
//	}
package scheduler
