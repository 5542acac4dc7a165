// Package recorder turns aggregate decisions into calibration records and
// persists them without ever failing or slowing the request that produced them.
package recorder

import (
	"context"
	"log/slog"

	"verigate/internal/calibration/record"
	"verigate/internal/calibration/store"
	"verigate/internal/kyc/models"
	"verigate/pkg/platform/circuit"
	"verigate/pkg/requestcontext"
)

// DefaultQueueSize bounds the number of records waiting for the worker.
const DefaultQueueSize = 1024

// Recorder is the best-effort front of the calibration store. With a queue,
// Record enqueues and Run persists; a full queue drops the record. With a queue
// size of 0 Record persists inline.
type Recorder struct {
	sink       store.Appender
	instanceID string
	queue      chan record.Record
	breaker    *circuit.Breaker
	metrics    *Metrics
	logger     *slog.Logger
}

type Option func(*Recorder)

func WithInstanceID(id string) Option {
	return func(r *Recorder) { r.instanceID = id }
}

// WithQueueSize sets the queue capacity. 0 makes Record synchronous.
func WithQueueSize(n int) Option {
	return func(r *Recorder) {
		if n <= 0 {
			r.queue = nil
			return
		}
		r.queue = make(chan record.Record, n)
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Recorder) { r.breaker = b }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

func New(sink store.Appender, opts ...Option) *Recorder {
	r := &Recorder{
		sink:    sink,
		queue:   make(chan record.Record, DefaultQueueSize),
		breaker: circuit.New("calibration"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Async reports whether records are persisted by Run.
func (r *Recorder) Async() bool {
	return r.queue != nil
}

// Record builds the audit row for d, timestamped with the request time.
func (r *Recorder) Record(ctx context.Context, d *models.AggregateDecision) {
	if d == nil {
		return
	}
	rec := record.FromDecision(d, r.instanceID, requestcontext.Now(ctx))

	if r.queue == nil {
		r.persist(context.WithoutCancel(ctx), rec)
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.metrics.incDropped(DropQueueFull)
		r.logger.WarnContext(ctx, "calibration queue full, record dropped",
			"request_id", rec.RequestID,
		)
	}
}

// Run persists queued records until ctx is done, then drains what is already
// queued. It is a no-op for a synchronous recorder.
func (r *Recorder) Run(ctx context.Context) error {
	if r.queue == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			r.drain(context.WithoutCancel(ctx))
			return nil
		case rec := <-r.queue:
			r.persist(ctx, rec)
		}
	}
}

func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case rec := <-r.queue:
			r.persist(ctx, rec)
		default:
			return
		}
	}
}

func (r *Recorder) persist(ctx context.Context, rec record.Record) {
	if !r.breaker.Allow() {
		r.metrics.incDropped(DropCircuitOpen)
		return
	}
	if err := r.sink.Append(ctx, rec); err != nil {
		r.metrics.incFailed()
		if r.breaker.RecordFailure() {
			r.logger.ErrorContext(ctx, "calibration circuit opened",
				"breaker", r.breaker.Name(),
			)
		}
		r.metrics.setBreakerState(r.breaker.IsOpen())
		r.logger.WarnContext(ctx, "failed to persist calibration record",
			"request_id", rec.RequestID,
			"error", err,
		)
		return
	}
	r.breaker.RecordSuccess()
	r.metrics.setBreakerState(false)
	r.metrics.incWritten()
}
