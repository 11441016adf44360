// ABOUTME: WebSocket transport package
// ABOUTME: Message-oriented full-duplex stream, no protocol awareness

// Package transport wraps gorilla/websocket as a plain message-oriented
// stream carrying text and binary frames. It has no knowledge of the
// Resonate protocol's message shapes; pkg/session owns framing and routing.
package transport
