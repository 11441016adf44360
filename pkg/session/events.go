// ABOUTME: Session event types delivered to the controller's consumer
// ABOUTME: One-shot-observer channel: ServerConnected, StreamStarted, StreamEnded, GroupUpdated, ArtworkReceived, VisualizerData, Error
package session

import "github.com/resonatekit/client/pkg/audio"

// EventKind discriminates an Event's payload fields.
type EventKind int

const (
	EventServerConnected EventKind = iota
	EventStreamStarted
	EventStreamEnded
	EventGroupUpdated
	EventArtworkReceived
	EventVisualizerData
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventServerConnected:
		return "server_connected"
	case EventStreamStarted:
		return "stream_started"
	case EventStreamEnded:
		return "stream_ended"
	case EventGroupUpdated:
		return "group_updated"
	case EventArtworkReceived:
		return "artwork_received"
	case EventVisualizerData:
		return "visualizer_data"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// GroupInfo mirrors the optional fields of a group/update message.
type GroupInfo struct {
	PlaybackState *string
	GroupID       *string
	GroupName     *string
}

// Event is delivered on Controller.Events for every externally-visible
// state change. Only the field relevant to Kind is populated.
type Event struct {
	Kind EventKind

	Format          audio.Format // EventStreamStarted
	Group           GroupInfo    // EventGroupUpdated
	ArtworkChannel  int          // EventArtworkReceived
	Artwork         []byte       // EventArtworkReceived
	Visualizer      []byte       // EventVisualizerData
	Err             error        // EventError
	ErrKind         ErrorKind    // EventError
}
