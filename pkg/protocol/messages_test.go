// ABOUTME: Tests for Resonate protocol message types
// ABOUTME: Verifies JSON envelope round-tripping for every recognized message type
package protocol

import (
	"encoding/json"
	"testing"
)

func roundTrip[T any](t *testing.T, msgType string, payload T) T {
	t.Helper()

	data, err := json.Marshal(Encode(msgType, payload))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if decoded.Type != msgType {
		t.Fatalf("expected type %s, got %s", msgType, decoded.Type)
	}

	var out T
	if err := DecodePayload(decoded, &out); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return out
}

func TestClientHelloRoundTrip(t *testing.T) {
	in := ClientHello{
		ClientID:       "test-id",
		Name:           "Test Player",
		Version:        1,
		SupportedRoles: []Role{RolePlayer},
		DeviceInfo: &DeviceInfo{
			ProductName:     "Test Product",
			Manufacturer:    "Test Mfg",
			SoftwareVersion: "0.1.0",
		},
		PlayerSupport: &PlayerSupport{
			SupportFormats: []AudioFormat{
				{Codec: CodecOpus, Channels: 2, SampleRate: 48000, BitDepth: 16},
				{Codec: CodecFLAC, Channels: 2, SampleRate: 48000, BitDepth: 16},
				{Codec: CodecPCM, Channels: 2, SampleRate: 48000, BitDepth: 16},
			},
			BufferCapacity:    1048576,
			SupportedCommands: []string{"volume", "mute"},
			LegacyCodecs:      []Codec{CodecOpus, CodecFLAC, CodecPCM},
			LegacyChannels:    []int{2},
			LegacySampleRates: []int{48000},
			LegacyBitDepths:   []int{16},
		},
	}

	out := roundTrip(t, TypeClientHello, in)
	if out.ClientID != in.ClientID || out.Name != in.Name {
		t.Errorf("expected %+v, got %+v", in, out)
	}
	if len(out.PlayerSupport.LegacyCodecs) != 3 {
		t.Errorf("expected legacy codecs to survive round-trip, got %+v", out.PlayerSupport)
	}
}

func TestServerHelloRoundTrip(t *testing.T) {
	in := ServerHello{ServerID: "srv-1", Name: "Living Room", Version: 1}
	out := roundTrip(t, TypeServerHello, in)
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestClientTimeServerTimeRoundTrip(t *testing.T) {
	ct := roundTrip(t, TypeClientTime, ClientTime{ClientTransmitted: 1234})
	if ct.ClientTransmitted != 1234 {
		t.Errorf("expected 1234, got %d", ct.ClientTransmitted)
	}

	st := roundTrip(t, TypeServerTime, ServerTime{
		ClientTransmitted: 1000,
		ServerReceived:    1150,
		ServerTransmitted: 1155,
	})
	if st.ServerReceived != 1150 || st.ServerTransmitted != 1155 {
		t.Errorf("unexpected server time: %+v", st)
	}
}

func TestPlayerReportRoundTrip(t *testing.T) {
	in := PlayerReport{State: SyncStateSynchronized, Volume: 80, Muted: false}
	out := roundTrip(t, TypePlayerUpdate, in)
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestStreamStartRoundTrip(t *testing.T) {
	in := StreamStart{
		Player: &StreamStartPlayer{
			Codec:       CodecPCM,
			SampleRate:  48000,
			Channels:    2,
			BitDepth:    16,
			CodecHeader: "aGVsbG8=",
		},
	}
	out := roundTrip(t, TypeStreamStart, in)
	if out.Player == nil || out.Player.Codec != CodecPCM || out.Player.SampleRate != 48000 {
		t.Errorf("unexpected stream start: %+v", out)
	}
}

func TestStreamEndRoundTrip(t *testing.T) {
	roundTrip(t, TypeStreamEnd, StreamEnd{})
}

func TestGroupUpdateRoundTrip(t *testing.T) {
	state := PlaybackStatePlaying
	groupID := "group-1"
	in := GroupUpdate{PlaybackState: &state, GroupID: &groupID}
	out := roundTrip(t, TypeGroupUpdate, in)
	if out.PlaybackState == nil || *out.PlaybackState != PlaybackStatePlaying {
		t.Errorf("unexpected group update: %+v", out)
	}
	if out.GroupID == nil || *out.GroupID != groupID {
		t.Errorf("unexpected group id: %+v", out)
	}
}

func TestSessionUpdateRoundTrip(t *testing.T) {
	title := "Track Title"
	in := SessionUpdate{Metadata: &SessionMetadata{Title: &title}}
	out := roundTrip(t, TypeSessionUpdate, in)
	if out.Metadata == nil || out.Metadata.Title == nil || *out.Metadata.Title != title {
		t.Errorf("unexpected session update: %+v", out)
	}
}

func TestClientGoodbyeRoundTrip(t *testing.T) {
	in := ClientGoodbye{Reason: GoodbyeUserRequest}
	out := roundTrip(t, TypeClientGoodbye, in)
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}
