// ABOUTME: Clock synchronization package
// ABOUTME: Tracks server-clock offset and drift from NTP-style exchanges

// Package clocksync estimates the offset and drift between a Resonate
// server's monotonic clock and the client's own monotonic clock from
// repeated four-timestamp exchanges, and converts timestamps between the
// two domains.
//
// Example:
//
//	model := clocksync.New()
//	model.ProcessSample(t1, t2, t3, t4)
//	localDeadline := model.ServerToLocal(serverTimestamp)
package clocksync
