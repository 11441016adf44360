// ABOUTME: Host clock tick conversion
// ABOUTME: Converts local monotonic microseconds into a sink's native timebase
package sink

// Timebase converts local monotonic microseconds into the host audio
// device's native tick domain via a numerator/denominator ratio, mirroring
// the mach_timebase_info convention (ticks = micros * 1000 * numer/denom
// for a nanosecond-based native timebase). The zero value is the identity
// ratio (1/1), appropriate for sinks that accept microseconds or
// nanoseconds directly rather than a native hardware tick count.
//
// Resonate's history includes servers that handed raw server microseconds
// straight to a CoreAudio host-time field expecting mach ticks; that bug is
// the reason this conversion exists as an explicit step rather than being
// assumed away.
type Timebase struct {
	Numer uint32
	Denom uint32
}

// Identity is the 1/1 timebase: host ticks equal nanoseconds.
var Identity = Timebase{Numer: 1, Denom: 1}

// ToHostTicks converts local monotonic microseconds to host-native ticks.
func (tb Timebase) ToHostTicks(localMicros int64) int64 {
	numer, denom := tb.Numer, tb.Denom
	if numer == 0 || denom == 0 {
		numer, denom = 1, 1
	}
	nanos := localMicros * 1000
	return nanos * int64(numer) / int64(denom)
}

// FromHostTicks is the inverse of ToHostTicks, rounding to the nearest
// microsecond so that tick truncation in ToHostTicks does not lose one.
func (tb Timebase) FromHostTicks(ticks int64) int64 {
	numer, denom := tb.Numer, tb.Denom
	if numer == 0 || denom == 0 {
		numer, denom = 1, 1
	}
	nanos := ticks * int64(denom) / int64(numer)
	if nanos < 0 {
		return (nanos - 500) / 1000
	}
	return (nanos + 500) / 1000
}
