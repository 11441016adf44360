// ABOUTME: Resonate wire protocol message and binary frame definitions
// ABOUTME: No transport or session logic lives here, only wire shapes and their codecs
// Package protocol defines the Resonate session protocol's wire types: the
// JSON text envelope and its recognized payloads, and the binary frame
// format used for audio, artwork, and visualizer data.
//
// Example:
//
//	data, _ := json.Marshal(protocol.Encode(protocol.TypeClientHello, hello))
//	frame, err := protocol.DecodeBinaryFrame(raw)
package protocol
