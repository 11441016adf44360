// ABOUTME: Session Controller: protocol state machine and component wiring
// ABOUTME: Owns the connection lifecycle, demultiplexes text/binary frames, and drives Clock Sync, Scheduler, Decoder, and Sink
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/audio/decode"
	"github.com/resonatekit/client/pkg/clocksync"
	"github.com/resonatekit/client/pkg/protocol"
	"github.com/resonatekit/client/pkg/scheduler"
	"github.com/resonatekit/client/pkg/sink"
	"github.com/resonatekit/client/pkg/transport"
)

const (
	defaultBackPressureBytes = 2 * 1024 * 1024 // 2 MiB, per typical deployment capacity
	initialProbeSpacing      = 100 * time.Millisecond
	initialProbeCount        = 5
	steadyProbeInterval      = 5 * time.Second
	handshakeTimeout         = 5 * time.Second
	eventBufferSize          = 64
)

// defaultAutoStartFormat is the format synthesized when audio chunks arrive
// before stream/start. It is a wart the protocol inherited from servers
// that omit the message; it is never a normal path.
var defaultAutoStartFormat = audio.Format{
	Codec:      protocol.CodecPCM,
	SampleRate: 48000,
	Channels:   2,
	BitDepth:   16,
}

// Config configures a Controller before Connect.
type Config struct {
	Name              string
	DeviceInfo        *protocol.DeviceInfo
	SupportedFormats  []protocol.AudioFormat
	BufferCapacityMs  int // advertised in player_support.buffer_capacity
	QueueCapacity     int // scheduler queue cap; 0 = scheduler default (100)
	BackPressureBytes int // BufferManager capacity in bytes; 0 = defaultBackPressureBytes
	Sink              sink.Sink
}

// Controller drives one Resonate session end to end: handshake, clock
// synchronization, audio ingress, and event delivery.
type Controller struct {
	cfg      Config
	clientID string

	conn    *transport.Conn
	clock   *clocksync.Model
	sched   *scheduler.Scheduler
	bufMgr  *scheduler.BufferManager
	snk     sink.Sink
	limiter *logLimiter

	events chan Event

	mu          sync.Mutex
	state       State
	format      audio.Format
	decoder     decode.Decoder
	volume      float64
	muted       bool
	autoStarted bool
	errorReason string
	counters    Counters

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Controller in state Disconnected. cfg.Sink must be non-nil.
func New(cfg Config) *Controller {
	if cfg.BackPressureBytes <= 0 {
		cfg.BackPressureBytes = defaultBackPressureBytes
	}

	clock := clocksync.New()
	return &Controller{
		cfg:      cfg,
		clientID: uuid.NewString(),
		clock:    clock,
		sched:    scheduler.New(clock, cfg.QueueCapacity),
		bufMgr:   scheduler.NewBufferManager(cfg.BackPressureBytes),
		snk:      cfg.Sink,
		limiter:  newLogLimiter(),
		events:   make(chan Event, eventBufferSize),
		volume:   1.0,
		state:    StateDisconnected,
	}
}

// Events returns the channel on which session lifecycle events are
// delivered. The channel is never closed; consumers should stop reading
// once State() reports Disconnected following a Disconnect call.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Snapshot returns a point-in-time read of session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		State:  c.state,
		Volume: c.volume,
		Muted:  c.muted,
	}
	if c.state == StateStreaming {
		snap.Format = c.format
	}
	if c.state == StateError {
		snap.ErrorReason = c.errorReason
	}
	return snap
}

// Counters returns a snapshot of error-taxonomy occurrence counts.
func (c *Controller) Counters() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters
}

// Stats reports the runtime telemetry a CLI or monitoring task would poll
// on a 1s cadence: goroutine count plus the scheduler's and clock's own
// stats snapshots. Generalizes the teacher's statsUpdateLoop, which fed
// the same numbers into its TUI.
type Stats struct {
	Goroutines int
	Scheduler  scheduler.Stats
	Clock      clocksync.Stats
}

// Stats returns a point-in-time snapshot of runtime telemetry.
func (c *Controller) Stats() Stats {
	return Stats{
		Goroutines: runtime.NumGoroutine(),
		Scheduler:  c.sched.Stats(),
		Clock:      c.clock.Stats(),
	}
}

// Connect dials url, performs the client/hello handshake, and starts the
// background tasks that drive the session for its lifetime. It returns once
// the transport is open and client/hello has been sent; server/hello is
// handled asynchronously and reported via Events.
func (c *Controller) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return fmt.Errorf("session: connect called in state %s", c.state)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	dialCtx, cancelDial := context.WithTimeout(ctx, handshakeTimeout)
	defer cancelDial()

	conn, err := transport.Dial(dialCtx, url)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("session: connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateHandshakePending
	c.mu.Unlock()

	if err := conn.WriteJSON(protocol.Encode(protocol.TypeClientHello, c.buildClientHello())); err != nil {
		conn.Close()
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("session: send client/hello: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.ctx = runCtx
	c.cancel = cancel
	c.mu.Unlock()

	binaryCh := make(chan protocol.BinaryFrame, eventBufferSize)

	c.wg.Add(3)
	go c.readLoop(runCtx, binaryCh)
	go c.binaryWorker(runCtx, binaryCh)
	go c.emitLoop(runCtx)

	return nil
}

func (c *Controller) buildClientHello() protocol.ClientHello {
	roles := []protocol.Role{protocol.RolePlayer}

	return protocol.ClientHello{
		ClientID:       c.clientID,
		Name:           c.cfg.Name,
		Version:        1,
		SupportedRoles: roles,
		DeviceInfo:     c.cfg.DeviceInfo,
		PlayerSupport:  c.buildPlayerSupport(),
	}
}

func (c *Controller) buildPlayerSupport() *protocol.PlayerSupport {
	formats := c.cfg.SupportedFormats
	if len(formats) == 0 {
		formats = []protocol.AudioFormat{
			{Codec: protocol.CodecPCM, Channels: 2, SampleRate: 48000, BitDepth: 16},
			{Codec: protocol.CodecFLAC, Channels: 2, SampleRate: 48000, BitDepth: 16},
			{Codec: protocol.CodecOpus, Channels: 2, SampleRate: 48000, BitDepth: 16},
		}
	}

	support := &protocol.PlayerSupport{
		SupportFormats: formats,
		BufferCapacity: c.cfg.BufferCapacityMs,
	}
	for _, f := range formats {
		support.LegacyCodecs = append(support.LegacyCodecs, f.Codec)
		support.LegacyChannels = append(support.LegacyChannels, f.Channels)
		support.LegacySampleRates = append(support.LegacySampleRates, f.SampleRate)
		support.LegacyBitDepths = append(support.LegacyBitDepths, f.BitDepth)
	}
	return support
}

func (c *Controller) isCodecSupported(codec protocol.Codec) bool {
	formats := c.cfg.SupportedFormats
	if len(formats) == 0 {
		return codec == protocol.CodecPCM || codec == protocol.CodecFLAC || codec == protocol.CodecOpus
	}
	for _, f := range formats {
		if f.Codec == codec {
			return true
		}
	}
	return false
}

// readLoop is the sole reader of the underlying transport; it handles text
// frames inline (serializing session-state transitions) and forwards
// binary frames to binaryWorker for concurrent processing.
func (c *Controller) readLoop(ctx context.Context, binaryCh chan<- protocol.BinaryFrame) {
	defer c.wg.Done()
	defer close(binaryCh)

	for {
		binary, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			c.handleTransportLoss(err)
			return
		}

		if binary {
			frame, err := protocol.DecodeBinaryFrame(data)
			if err != nil {
				c.countError(KindTransientProtocol, err)
				continue
			}
			select {
			case binaryCh <- frame:
			case <-ctx.Done():
				return
			}
			continue
		}

		c.handleText(data)
	}
}

func (c *Controller) binaryWorker(ctx context.Context, binaryCh <-chan protocol.BinaryFrame) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-binaryCh:
			if !ok {
				return
			}
			c.handleBinaryFrame(frame)
		}
	}
}

func (c *Controller) emitLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case buf, ok := <-c.sched.Emitted():
			if !ok {
				return
			}
			if err := c.snk.Write(buf.Samples); err != nil {
				c.countError(KindFatal, err)
			}
		}
	}
}

func (c *Controller) handleText(data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.countError(KindTransientProtocol, fmt.Errorf("malformed message: %w", err))
		return
	}

	switch msg.Type {
	case protocol.TypeServerHello:
		c.handleServerHello(msg)
	case protocol.TypeServerTime:
		c.handleServerTime(msg)
	case protocol.TypeStreamStart:
		c.handleStreamStart(msg)
	case protocol.TypeStreamEnd:
		c.handleStreamEnd()
	case protocol.TypeGroupUpdate:
		c.handleGroupUpdate(msg)
	case protocol.TypeSessionUpdate:
		c.handleSessionUpdate(msg)
	default:
		c.countError(KindTransientProtocol, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (c *Controller) handleServerHello(msg protocol.Message) {
	var payload protocol.ServerHello
	if err := protocol.DecodePayload(msg, &payload); err != nil {
		c.countError(KindTransientProtocol, err)
		return
	}

	c.mu.Lock()
	if c.state != StateHandshakePending {
		c.mu.Unlock()
		c.countError(KindTransientProtocol, fmt.Errorf("server/hello in state %s", c.state))
		return
	}
	c.state = StateReady
	c.mu.Unlock()

	c.sched.Start()

	c.events <- Event{Kind: EventServerConnected}
	c.sendPlayerUpdate()

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	c.wg.Add(1)
	go c.timeSyncLoop(ctx)
}

func (c *Controller) timeSyncLoop(ctx context.Context) {
	defer c.wg.Done()

	for i := 0; i < initialProbeCount; i++ {
		c.sendClientTime()
		select {
		case <-time.After(initialProbeSpacing):
		case <-ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(steadyProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sendClientTime()
		}
	}
}

func (c *Controller) sendClientTime() {
	t1 := clocksync.CurrentMicros()
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.WriteJSON(protocol.Encode(protocol.TypeClientTime, protocol.ClientTime{ClientTransmitted: t1})); err != nil {
		c.countError(KindTransportLoss, err)
	}
}

func (c *Controller) handleServerTime(msg protocol.Message) {
	var payload protocol.ServerTime
	if err := protocol.DecodePayload(msg, &payload); err != nil {
		c.countError(KindTransientProtocol, err)
		return
	}

	t4 := clocksync.CurrentMicros()
	accepted := c.clock.ProcessSample(payload.ClientTransmitted, payload.ServerReceived, payload.ServerTransmitted, t4)
	if !accepted {
		key := "clock_sample_rejected"
		if c.limiter.allow(key) {
			log.Printf("session: clock sample rejected")
		}
	}
}

func (c *Controller) handleStreamStart(msg protocol.Message) {
	var payload protocol.StreamStart
	if err := protocol.DecodePayload(msg, &payload); err != nil {
		c.countError(KindTransientProtocol, err)
		return
	}
	if payload.Player == nil {
		return
	}

	var codecHeader []byte
	if payload.Player.CodecHeader != "" {
		decoded, err := base64.StdEncoding.DecodeString(payload.Player.CodecHeader)
		if err != nil {
			c.countError(KindTransientProtocol, fmt.Errorf("decode codec_header: %w", err))
			return
		}
		codecHeader = decoded
	}

	format := audio.Format{
		Codec:       payload.Player.Codec,
		SampleRate:  payload.Player.SampleRate,
		Channels:    payload.Player.Channels,
		BitDepth:    payload.Player.BitDepth,
		CodecHeader: codecHeader,
	}

	c.startStream(format)
}

// startStream transitions into Streaming for format, building a fresh
// Decoder and (re)opening the Sink. Used both for an explicit stream/start
// and for the auto-start-on-first-chunk path.
func (c *Controller) startStream(format audio.Format) error {
	if !c.isCodecSupported(format.Codec) {
		err := fmt.Errorf("codec %s not supported", format.Codec)
		c.enterError(err)
		c.countError(KindUnsupportedCodec, err)
		c.events <- Event{Kind: EventError, Err: err, ErrKind: KindUnsupportedCodec}
		return err
	}

	dec, err := decode.New(format)
	if err != nil {
		c.enterError(err)
		c.countError(KindFatal, err)
		c.events <- Event{Kind: EventError, Err: err, ErrKind: KindFatal}
		return err
	}

	if err := c.snk.Open(format); err != nil {
		dec.Close()
		c.enterError(err)
		c.countError(KindFatal, err)
		c.events <- Event{Kind: EventError, Err: err, ErrKind: KindFatal}
		return err
	}

	c.mu.Lock()
	if c.decoder != nil {
		c.decoder.Close()
	}
	c.decoder = dec
	c.format = format
	c.state = StateStreaming
	c.mu.Unlock()

	c.bufMgr.Clear()
	c.sched.Clear()
	c.sched.Start()

	c.events <- Event{Kind: EventStreamStarted, Format: format}
	c.sendPlayerUpdate()
	return nil
}

func (c *Controller) enterError(cause error) {
	c.mu.Lock()
	c.state = StateError
	c.errorReason = cause.Error()
	c.mu.Unlock()
	c.sendPlayerUpdate()
}

func (c *Controller) handleStreamEnd() {
	c.mu.Lock()
	if c.state != StateStreaming {
		c.mu.Unlock()
		return
	}
	dec := c.decoder
	c.decoder = nil
	c.state = StateReady
	c.mu.Unlock()

	c.sched.Stop()
	c.sched.Clear()
	c.bufMgr.Clear()
	if dec != nil {
		dec.Close()
	}
	c.snk.Close()

	c.events <- Event{Kind: EventStreamEnded}
}

func (c *Controller) handleGroupUpdate(msg protocol.Message) {
	var payload protocol.GroupUpdate
	if err := protocol.DecodePayload(msg, &payload); err != nil {
		c.countError(KindTransientProtocol, err)
		return
	}

	var state *string
	if payload.PlaybackState != nil {
		s := string(*payload.PlaybackState)
		state = &s
	}

	c.events <- Event{Kind: EventGroupUpdated, Group: GroupInfo{
		PlaybackState: state,
		GroupID:       payload.GroupID,
		GroupName:     payload.GroupName,
	}}
}

func (c *Controller) handleSessionUpdate(msg protocol.Message) {
	var payload protocol.SessionUpdate
	if err := protocol.DecodePayload(msg, &payload); err != nil {
		c.countError(KindTransientProtocol, err)
		return
	}

	var state *string
	if payload.PlaybackState != nil {
		s := string(*payload.PlaybackState)
		state = &s
	}

	c.events <- Event{Kind: EventGroupUpdated, Group: GroupInfo{
		PlaybackState: state,
		GroupID:       payload.GroupID,
	}}
}

func (c *Controller) handleBinaryFrame(frame protocol.BinaryFrame) {
	switch {
	case frame.Kind.IsAudioChunk():
		c.handleAudioChunk(frame)
	case frame.Kind.ArtworkChannel() >= 0:
		c.events <- Event{Kind: EventArtworkReceived, ArtworkChannel: frame.Kind.ArtworkChannel(), Artwork: frame.Payload}
	case frame.Kind == protocol.FrameKindVisualizerData:
		c.events <- Event{Kind: EventVisualizerData, Visualizer: frame.Payload}
	}
}

func (c *Controller) handleAudioChunk(frame protocol.BinaryFrame) {
	c.mu.Lock()
	state := c.state
	autoStarted := c.autoStarted
	c.mu.Unlock()

	if state == StateReady && !autoStarted {
		c.mu.Lock()
		c.autoStarted = true
		c.counters.AutoStarted++
		c.mu.Unlock()
		log.Printf("session: auto-starting stream with default format %+v (stream/start was never received)", defaultAutoStartFormat)
		if err := c.startStream(defaultAutoStartFormat); err != nil {
			return
		}
	}

	c.mu.Lock()
	dec := c.decoder
	format := c.format
	streaming := c.state == StateStreaming
	c.mu.Unlock()

	if !streaming || dec == nil {
		return
	}

	samples, err := dec.Decode(frame.Payload)
	if err != nil {
		c.countError(KindDecodeError, err)
		return
	}

	const canonicalBytesPerSample = 4
	chunkBytes := len(samples) * canonicalBytesPerSample
	if !c.bufMgr.HasCapacity(chunkBytes) {
		c.countError(KindBackPressure, fmt.Errorf("sink buffer full, refusing %d bytes", chunkBytes))
		return
	}

	durationMicros := int64(0)
	if format.SampleRate > 0 && format.Channels > 0 {
		frames := len(samples) / format.Channels
		durationMicros = int64(frames) * 1_000_000 / int64(format.SampleRate)
	}
	endTimeLocal := c.clock.ServerToLocal(frame.ServerTSMicros) + durationMicros
	c.bufMgr.Register(endTimeLocal, chunkBytes)
	c.bufMgr.Prune(clocksync.CurrentMicros())

	c.sched.Schedule(audio.Buffer{
		ServerTSMicros: frame.ServerTSMicros,
		Samples:        samples,
		Format:         format,
	})
}

// SetVolume sets linear gain in [0.0, 1.0] and reports the change.
func (c *Controller) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	c.mu.Lock()
	c.volume = volume
	c.mu.Unlock()
	c.snk.SetVolume(volume)
	c.sendPlayerUpdate()
}

// SetMuted mutes or unmutes output and reports the change.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
	c.snk.SetMuted(muted)
	c.sendPlayerUpdate()
}

// sendPlayerUpdate reports current {sync_state, volume, muted}. Every
// SetVolume and SetMuted call sends its own update; a volume change followed
// immediately by a mute change produces two updates, not one.
func (c *Controller) sendPlayerUpdate() {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	volume := c.volume
	muted := c.muted
	c.mu.Unlock()

	if conn == nil {
		return
	}

	syncState := protocol.SyncStateSynchronized
	if state == StateError {
		syncState = protocol.SyncStateError
	}

	report := protocol.PlayerReport{
		State:  syncState,
		Volume: int(volume*100 + 0.5),
		Muted:  muted,
	}
	if err := conn.WriteJSON(protocol.Encode(protocol.TypePlayerUpdate, report)); err != nil {
		c.countError(KindTransportLoss, err)
	}
}

func (c *Controller) countError(kind ErrorKind, err error) {
	c.mu.Lock()
	c.counters.bump(kind)
	c.mu.Unlock()

	key := fmt.Sprintf("%s:%v", kind, err)
	if c.limiter.allow(key) {
		log.Printf("session: %s: %v", kind, err)
	}
}

func (c *Controller) handleTransportLoss(err error) {
	c.countError(KindTransportLoss, err)
	if c.cancel != nil {
		c.cancel()
	}
	c.teardown()
	c.events <- Event{Kind: EventError, Err: err, ErrKind: KindTransportLoss}
}

// Disconnect tears the session down, sending client/goodbye with reason
// (defaulting to GoodbyeUserRequest when omitted). It is idempotent: calling
// it again once already Disconnected is a no-op observationally equivalent
// to the first call.
func (c *Controller) Disconnect(reason ...protocol.GoodbyeReason) error {
	goodbyeReason := protocol.GoodbyeUserRequest
	if len(reason) > 0 {
		goodbyeReason = reason[0]
	}

	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteJSON(protocol.Encode(protocol.TypeClientGoodbye, protocol.ClientGoodbye{Reason: goodbyeReason}))
	}

	// Cancel before closing the transport so readLoop's post-ReadMessage
	// check sees ctx already done and takes the clean-shutdown path instead
	// of racing into handleTransportLoss.
	if c.cancel != nil {
		c.cancel()
	}
	if conn != nil {
		conn.Close()
	}
	c.wg.Wait()
	c.teardown()
	return nil
}

// teardown releases per-session resources. c.sched is created once in New
// and never replaced, so Stop+Clear (rather than Finish, which would
// permanently close its output channel) leaves it reusable if Connect is
// called again; emitLoop exits via context cancellation, not channel close.
func (c *Controller) teardown() {
	c.sched.Stop()
	c.sched.Clear()
	c.bufMgr.Clear()
	c.clock.Reset()
	_ = c.snk.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.decoder != nil {
		c.decoder.Close()
		c.decoder = nil
	}
	c.state = StateDisconnected
	c.errorReason = ""
	c.autoStarted = false
}
