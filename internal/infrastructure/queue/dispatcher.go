package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/api/metrics"
	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes domain events to a fixed set of workers using consistent
// hashing on the event key, guaranteeing per-aggregate ordering.
type Dispatcher struct {
	workers   []chan domain.Event
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.Event, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes what is already buffered, bounded by drainTimeout, and returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its key. Events are
// dropped with a warning when that worker's buffer is full.
func (d *Dispatcher) Enqueue(event domain.Event) {
	idx := d.shardIndex(event.Key)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "dropped").Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("key", event.Key).
			Int("worker_id", idx).
			Msg("event queue full, dropping event")
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch, depth)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) drain(id int, ch <-chan domain.Event, depth prometheus.Gauge) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-ch:
			depth.Dec()
			d.publish(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, id int, event domain.Event) {
	start := time.Now()
	err := d.publisher.Publish(ctx, event)
	metrics.EventPublishDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("key", event.Key).
			Int("worker_id", id).
			Msg("event publishing failed")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
}
