// ABOUTME: Property-based tests for clock synchronization invariants
// ABOUTME: Uses rapid to fuzz sequences of sync exchanges
package clocksync

import (
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_AcceptedSamplesHaveBoundedRTT checks that every accepted
// sample has 0 <= rtt <= 100ms, and that a rejected sample leaves the model
// unchanged.
func TestProperty_AcceptedSamplesHaveBoundedRTT(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		localTime := int64(0)

		n := rapid.IntRange(1, 30).Draw(t, "n")
		for i := 0; i < n; i++ {
			oneWay := rapid.Int64Range(0, 200_000).Draw(t, "oneWay")
			offset := rapid.Int64Range(-500_000, 500_000).Draw(t, "offset")
			processing := rapid.Int64Range(0, 50_000).Draw(t, "processing")

			t1 := localTime
			t2 := t1 + oneWay + offset
			t3 := t2 + processing
			t4 := t1 + 2*oneWay + processing
			localTime = t4 + 1

			before := m.Stats()
			accepted := m.ProcessSample(t1, t2, t3, t4)
			after := m.Stats()

			if accepted {
				if after.RTTMicros < 0 || after.RTTMicros > maxRTTMicros {
					t.Fatalf("accepted sample has out-of-bounds rtt %d", after.RTTMicros)
				}
			} else if after != before {
				t.Fatalf("rejected sample mutated model: before=%+v after=%+v", before, after)
			}
		}
	})
}

// TestProperty_ServerLocalRoundTrip checks that server_to_local and
// local_to_server are exact inverses within +/-1us for times near the last
// update.
func TestProperty_ServerLocalRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()

		t1 := rapid.Int64Range(0, 1_000_000).Draw(t, "t1")
		oneWay := rapid.Int64Range(0, 40_000).Draw(t, "oneWay")
		offset := rapid.Int64Range(-100_000, 100_000).Draw(t, "offset")
		t2 := t1 + oneWay + offset
		t3 := t2 + 1000
		t4 := t1 + 2*oneWay + 1000
		m.ProcessSample(t1, t2, t3, t4)

		deltaSeconds := rapid.Int64Range(-10, 10).Draw(t, "deltaSeconds")
		local := t4 + deltaSeconds*1_000_000

		server := m.LocalToServer(local)
		back := m.ServerToLocal(server)
		diff := back - local
		if diff < -1 || diff > 1 {
			t.Fatalf("round trip diverged: local=%d server=%d back=%d diff=%d", local, server, back, diff)
		}
	})
}
