// ABOUTME: Session controller package
// ABOUTME: Wires transport, clock sync, decode, scheduler, and sink into the protocol state machine

// Package session drives one Resonate connection end to end: it performs
// the client/hello and client/time handshakes, demultiplexes text and
// binary frames, and routes decoded audio through the scheduler into a
// sink. Callers interact with it through Connect, SetVolume/SetMuted,
// Disconnect, and the Events channel.
package session
