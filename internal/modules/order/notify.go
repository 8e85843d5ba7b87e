package order

import (
	"context"
	"fmt"

	"github.com/georgemunganga/restro-backend/internal/modules/notification"
	"github.com/sirupsen/logrus"
)

// afterCommit publishes event and then queues the SMS text, if any. It runs only
// after the write is committed; nothing here can fail the operation.
func (s *service) afterCommit(ctx context.Context, event string, o *Order, text string) {
	log := s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"event":        event,
	})
	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("order side effect panicked")
		}
	}()

	if err := s.events.Publish(ctx, event, o); err != nil {
		log.WithError(err).Warn("broadcast failed")
	}
	if text != "" {
		s.notifier.Notify(o.CustomerMobile, text)
	}
	log.WithField("status", o.Status).Info("order committed")
}

func (s *service) placedMessage(o *Order) string {
	return s.renderer.Render(notification.TopicOrderPlaced,
		o.CustomerName, o.OrderNumber, o.GrandTotal.StringFixed(2))
}

// transitionMessage returns the SMS for the status o just entered, or "" when none is sent.
func (s *service) transitionMessage(o *Order) string {
	var topic notification.Topic
	switch o.Status {
	case StatusInProgress:
		if o.EstimatedMinutes == nil {
			return ""
		}
		return s.renderer.Render(notification.TopicOrderProcessing, o.OrderNumber, *o.EstimatedMinutes)
	case StatusReady:
		topic = notification.TopicOrderReady
	case StatusReadyForPickup:
		topic = notification.TopicOrderReadyForPickup
	case StatusOutForDelivery:
		topic = notification.TopicOrderOutForDelivery
	case StatusCompleted:
		topic = notification.TopicOrderCompleted
	case StatusDelivered:
		topic = notification.TopicOrderDelivered
	case StatusCancelled:
		topic = notification.TopicOrderCancelled
	default:
		return ""
	}
	return s.renderer.Render(topic, o.OrderNumber)
}
