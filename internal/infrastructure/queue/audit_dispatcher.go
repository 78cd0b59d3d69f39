package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher decouples audit writes from the request path: Record
// enqueues and returns immediately, a fixed set of workers drains into the
// underlying sink. Entries for the same actor hash to the same worker, so
// one actor's trail stays in order.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	sink    ports.AuditSink
	clock   ports.Clock
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditSink, clock ports.Clock, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		clock:   clock,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues one audit entry. The call blocks only when the worker's
// buffer is full; it never fails the caller's operation.
func (d *AuditDispatcher) Record(_ context.Context, actorID, action, targetType, targetID string) error {
	entry := domain.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  d.clock.Now(),
	}
	d.workers[d.shardIndex(actorID)] <- entry
	return nil
}

// shardIndex maps an actor id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(actorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actorID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Record(ctx, entry.ActorID, entry.Action, entry.TargetType, entry.TargetID); err != nil {
				d.log.Error().Err(err).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
