package poller

import (
	"context"
	"time"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/publisher"
	"github.com/preston-bernstein/live-event-tracker/internal/retry"
)

// worker runs the fetch-and-publish loop of a single event.
type worker struct {
	eventID string
	sup     *Supervisor
	handle  *handle
	origin  time.Time
	after   <-chan struct{}
	job     *publishJob
}

// publishJob awaits the acknowledgement of one message and retries it.
type publishJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *worker) run(ctx context.Context) {
	defer w.sup.finished(w.eventID, w.handle)
	defer w.supersedePublish()

	// the previous worker of this event must be gone before the first cycle
	if w.after != nil {
		<-w.after
	}

	sched := newSchedule(w.origin, w.sup.cfg.Period)
	for {
		if !w.sleepUntil(ctx, sched.next(w.sup.clock.Now())) {
			w.logDebug("poller cancelled")
			return
		}
		if !w.stillLive() {
			w.sup.release(w.eventID, w.handle)
			w.logInfo("event no longer live, poller exiting")
			return
		}
		w.cycle(ctx)
	}
}

func (w *worker) sleepUntil(ctx context.Context, at time.Time) bool {
	wait := at.Sub(w.sup.clock.Now())
	if wait <= 0 {
		return ctx.Err() == nil
	}
	timer := w.sup.clock.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return ctx.Err() == nil
	}
}

func (w *worker) stillLive() bool {
	if w.sup.registry == nil {
		return true
	}
	state, ok := w.sup.registry.Get(w.eventID)
	return ok && state.Live
}

func (w *worker) cycle(ctx context.Context) {
	start := w.sup.clock.Now()

	data, err := w.sup.fetcher.FetchScore(ctx, w.eventID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.sup.metrics.RecordPollerCycle(metrics.OutcomeFetchFailed, w.sup.clock.Since(start))
		w.logError("score fetch failed, skipping cycle", err, "max_attempts", w.sup.cfg.Fetch.MaxAttempts)
		return
	}
	if ctx.Err() != nil {
		return
	}
	data.EventID = w.eventID

	msg := events.NewScoreMessage(data, w.sup.clock.Now())
	payload, err := w.sup.encode(msg)
	if err != nil {
		w.sup.metrics.RecordPollerCycle(metrics.OutcomeEncodeFailed, w.sup.clock.Since(start))
		w.logError("score message encode failed", err)
		return
	}

	w.publish(ctx, msg, payload)
	w.sup.metrics.RecordPollerCycle(metrics.OutcomePublished, w.sup.clock.Since(start))
}

// publish hands payload to the publisher before returning so handoffs follow
// cycle order. The acknowledgement is awaited in the background. A still
// pending older message is abandoned first so it cannot be re-sent after this one.
func (w *worker) publish(ctx context.Context, msg events.ScoreMessage, payload []byte) {
	w.supersedePublish()

	jobCtx, cancel := context.WithCancel(ctx)
	job := &publishJob{cancel: cancel, done: make(chan struct{})}
	w.job = job

	first := w.sup.publisher.Publish(jobCtx, w.eventID, payload)
	go w.awaitPublish(jobCtx, job, msg, payload, first)
}

func (w *worker) awaitPublish(ctx context.Context, job *publishJob, msg events.ScoreMessage, payload []byte, first publisher.Ack) {
	defer close(job.done)
	defer job.cancel()

	attempts := 0
	err := retry.Do(ctx, w.sup.clock, w.sup.cfg.Publish, func(attempt int) error {
		attempts = attempt
		ack := first
		if attempt > 1 {
			ack = w.sup.publisher.Publish(ctx, w.eventID, payload)
		}
		started := w.sup.clock.Now()
		err := publisher.Wait(ctx, ack)
		w.sup.metrics.RecordPublishAttempt(w.sup.cfg.Topic, w.sup.clock.Since(started), err)
		return err
	}, func(attempt int, err error, wait time.Duration) {
		w.logWarn("score publish retry", err, logging.FieldAttempt, attempt, "backoff", wait)
	})

	switch {
	case err == nil:
		if w.sup.sink != nil {
			w.sup.sink.Record(msg)
		}
		w.logDebug("score published", logging.FieldScore, msg.CurrentScore, logging.FieldAttempt, attempts)
	case ctx.Err() != nil:
		w.logDebug("score publish abandoned", logging.FieldScore, msg.CurrentScore)
	default:
		w.logError("score publish failed, dropping message", err,
			logging.FieldScore, msg.CurrentScore, "attempts", attempts)
	}
}

// supersedePublish cancels the pending publish job, if any, and waits for it.
func (w *worker) supersedePublish() {
	if w.job == nil {
		return
	}
	w.job.cancel()
	<-w.job.done
	w.job = nil
}

func (w *worker) logDebug(msg string, args ...any) {
	logging.Debug(w.sup.logger, msg, append(args, logging.FieldEventID, w.eventID)...)
}

func (w *worker) logInfo(msg string, args ...any) {
	logging.Info(w.sup.logger, msg, append(args, logging.FieldEventID, w.eventID)...)
}

func (w *worker) logWarn(msg string, err error, args ...any) {
	logging.Warn(w.sup.logger, msg, append(args, logging.FieldEventID, w.eventID, "error", err)...)
}

func (w *worker) logError(msg string, err error, args ...any) {
	logging.Error(w.sup.logger, msg, err, append(args, logging.FieldEventID, w.eventID)...)
}
