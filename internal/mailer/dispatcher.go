package mailer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Dispatcher delivers email at most once from a bounded queue. Enqueue
// never blocks a request: a full queue drops the message. Failures are
// counted and logged, never retried.
type Dispatcher struct {
	sender  Sender
	log     *slog.Logger
	queue   chan Message
	wg      sync.WaitGroup
	sent    atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

func NewDispatcher(sender Sender, log *slog.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, queueSize),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		if d.sender == nil {
			// Mock mode: no SMTP credentials configured.
			d.log.Info("email mock",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
			)
			d.sent.Add(1)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		err := d.sender.Send(ctx, msg)
		cancel()
		if err != nil {
			d.failed.Add(1)
			d.log.Warn("email send failed",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
				slog.String("error", err.Error()),
			)
			continue
		}
		d.sent.Add(1)
		d.log.Info("email sent",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
	}
}

func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.dropped.Add(1)
		d.log.Warn("email queue full, dropping message", slog.String("to", msg.To))
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) Stats() (sent, failed, dropped uint64) {
	return d.sent.Load(), d.failed.Load(), d.dropped.Load()
}
