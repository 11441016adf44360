// ABOUTME: Error taxonomy for the session controller
// ABOUTME: Behavioral categories, not Go error types: most are counted only, a few transition state and emit an event
package session

// ErrorKind classifies a failure by how the controller responds to it.
// Only UnsupportedCodec, TransportLoss, and Fatal ever reach an Event; the
// rest are counted and logged.
type ErrorKind int

const (
	KindTransientProtocol ErrorKind = iota
	KindDecodeError
	KindScheduleDrop
	KindBackPressure
	KindUnsupportedCodec
	KindTransportLoss
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransientProtocol:
		return "transient_protocol"
	case KindDecodeError:
		return "decode_error"
	case KindScheduleDrop:
		return "schedule_drop"
	case KindBackPressure:
		return "back_pressure"
	case KindUnsupportedCodec:
		return "unsupported_codec"
	case KindTransportLoss:
		return "transport_loss"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Counters is a side-effect-free snapshot of error-kind occurrence counts.
// ScheduleDrop (late chunk, queue overflow) is not duplicated here: it is
// already tracked precisely by Scheduler.Stats().DroppedLate/DroppedOverflow.
type Counters struct {
	TransientProtocol int64
	DecodeError       int64
	BackPressure      int64
	UnsupportedCodec  int64
	TransportLoss     int64
	Fatal             int64
	AutoStarted       int64 // telemetry for the "auto-start on first chunk" wart
}

func (c *Counters) bump(kind ErrorKind) {
	switch kind {
	case KindTransientProtocol:
		c.TransientProtocol++
	case KindDecodeError:
		c.DecodeError++
	case KindBackPressure:
		c.BackPressure++
	case KindUnsupportedCodec:
		c.UnsupportedCodec++
	case KindTransportLoss:
		c.TransportLoss++
	case KindFatal:
		c.Fatal++
	}
}
