package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const sendTimeout = 15 * time.Second

type outbound struct {
	to   string
	text string
}

// Dispatcher delivers SMS messages in the background. Notify never blocks the
// caller and delivery failures are logged, never returned.
type Dispatcher struct {
	sender Sender
	queue  chan outbound
	log    logrus.FieldLogger
}

// NewDispatcher creates a dispatcher with a queue of the given size.
func NewDispatcher(sender Sender, size int, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		queue:  make(chan outbound, size),
		log:    log.WithField("component", "sms_dispatcher"),
	}
}

// Notify queues a message for delivery. A full queue drops the message.
func (d *Dispatcher) Notify(to, text string) {
	select {
	case d.queue <- outbound{to: to, text: text}:
	default:
		d.log.WithField("to", to).Warn("sms queue full, message dropped")
	}
}

// Run delivers queued messages until ctx is cancelled, then flushes what is
// already queued with a fresh deadline.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		case <-ctx.Done():
			d.flush()
			return nil
		}
	}
}

func (d *Dispatcher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg outbound) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("to", msg.to).WithError(fmt.Errorf("panic: %v", r)).Error("sms sender panicked")
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := d.sender.Send(sendCtx, msg.to, msg.text); err != nil {
		d.log.WithError(err).WithField("to", msg.to).Warn("sms delivery failed")
	}
}
