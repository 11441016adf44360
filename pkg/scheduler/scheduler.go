// ABOUTME: Timestamp-ordered playback scheduler
// ABOUTME: Orders decoded PCM chunks by play-out instant and emits them on a fixed tick
package scheduler

import (
	"container/heap"
	"context"
	"log"
	"sync"
	"time"

	"github.com/resonatekit/client/pkg/audio"
	"github.com/resonatekit/client/pkg/clocksync"
)

const (
	tick           = 10 * time.Millisecond
	playoutWindow  = 50 * time.Millisecond
	defaultMaxSize = 100
)

// Stats is a side-effect-free snapshot of scheduler counters.
type Stats struct {
	Received        int64
	Played          int64
	DroppedLate     int64
	DroppedOverflow int64
	QueueLen        int
}

// Scheduler orders decoded PCM chunks by their target play-out instant and
// emits them on a 10ms tick inside a +/-50ms tolerance window. It is a
// single-writer queue (Schedule) with a single-reader tick loop.
type Scheduler struct {
	clock   *clocksync.Model
	maxSize int

	mu      sync.Mutex
	queue   bufferQueue
	nextSeq uint64
	stats   Stats

	output  chan audio.Buffer
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Scheduler bound to clock for server-to-local conversion.
// Queue capacity defaults to 100 chunks when maxSize <= 0.
func New(clock *clocksync.Model, maxSize int) *Scheduler {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &Scheduler{
		clock:   clock,
		maxSize: maxSize,
		output:  make(chan audio.Buffer, maxSize),
	}
}

// Schedule converts buf's server timestamp to local time via the clock
// model and inserts it into the queue in play-time order. On overflow the
// earliest-keyed entry is evicted and DroppedOverflow is incremented.
func (s *Scheduler) Schedule(buf audio.Buffer) {
	buf.PlayAt = clocksync.LocalToTime(s.clock.ServerToLocal(buf.ServerTSMicros))

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := queueEntry{buf: buf, seq: s.nextSeq}
	s.nextSeq++

	s.stats.Received++
	heap.Push(&s.queue, entry)

	if len(s.queue.items) > s.maxSize {
		heap.Pop(&s.queue)
		s.stats.DroppedOverflow++
	}

	s.stats.QueueLen = len(s.queue.items)
}

// Emitted returns the channel scheduled chunks are delivered on once their
// play-out instant falls inside the tolerance window.
func (s *Scheduler) Emitted() <-chan audio.Buffer {
	return s.output
}

// Start begins the 10ms tick loop. Calling Start while already running is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processQueue(ctx)
		}
	}
}

func (s *Scheduler) processQueue(ctx context.Context) {
	now := time.Now()

	for {
		buf, ok := s.popReady(now)
		if !ok {
			return
		}

		select {
		case s.output <- buf:
			s.mu.Lock()
			s.stats.Played++
			s.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// popReady pops and returns the head of the queue if it is within the
// play-out window, dropping late entries along the way. It returns
// (zero, false) once the head is too early or the queue is empty.
func (s *Scheduler) popReady(now time.Time) (audio.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.queue.Len() > 0 {
		head := s.queue.items[0]
		delay := head.buf.PlayAt.Sub(now)

		switch {
		case delay > playoutWindow:
			return audio.Buffer{}, false
		case delay < -playoutWindow:
			heap.Pop(&s.queue)
			s.stats.DroppedLate++
			s.stats.QueueLen = len(s.queue.items)
			log.Printf("scheduler: dropped late chunk, %v behind schedule", -delay)
		default:
			heap.Pop(&s.queue)
			s.stats.QueueLen = len(s.queue.items)
			return head.buf, true
		}
	}
	return audio.Buffer{}, false
}

// Stop pauses the tick loop but preserves the output channel and queued
// entries; Schedule may still be called while stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()
	s.wg.Wait()
}

// Finish stops the tick loop and permanently closes the output channel.
func (s *Scheduler) Finish() {
	s.Stop()
	close(s.output)
}

// Clear discards all queued entries without affecting run state.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = bufferQueue{}
	s.stats.QueueLen = 0
}

// Stats returns a snapshot of scheduler counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

type queueEntry struct {
	buf audio.Buffer
	seq uint64
}

// bufferQueue is a container/heap priority queue ordered by PlayAt,
// breaking ties on insertion order (FIFO within a tie).
type bufferQueue struct {
	items []queueEntry
}

func (q *bufferQueue) Len() int { return len(q.items) }

func (q *bufferQueue) Less(i, j int) bool {
	if q.items[i].buf.PlayAt.Equal(q.items[j].buf.PlayAt) {
		return q.items[i].seq < q.items[j].seq
	}
	return q.items[i].buf.PlayAt.Before(q.items[j].buf.PlayAt)
}

func (q *bufferQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *bufferQueue) Push(x interface{}) {
	q.items = append(q.items, x.(queueEntry))
}

func (q *bufferQueue) Pop() interface{} {
	n := len(q.items)
	item := q.items[n-1]
	q.items = q.items[:n-1]
	return item
}
