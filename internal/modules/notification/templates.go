package notification

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Topic identifies one SMS template.
type Topic string

const (
	TopicOrderPlaced         Topic = "order.placed"
	TopicOrderProcessing     Topic = "order.processing"
	TopicOrderReady          Topic = "order.ready"
	TopicOrderReadyForPickup Topic = "order.ready_for_pickup"
	TopicOrderOutForDelivery Topic = "order.out_for_delivery"
	TopicOrderCompleted      Topic = "order.completed"
	TopicOrderDelivered      Topic = "order.delivered"
	TopicOrderCancelled      Topic = "order.cancelled"
)

func init() {
	lang := language.English

	message.SetString(lang, string(TopicOrderPlaced), "Hi %s, your order %s has been placed. Total: Rs %s.")
	message.SetString(lang, string(TopicOrderProcessing), "Your order %s is being prepared. ETA %d minutes.")
	message.SetString(lang, string(TopicOrderReady), "Your order %s is ready. Please collect it at the counter.")
	message.SetString(lang, string(TopicOrderReadyForPickup), "Your order %s is packed and waiting for our delivery partner.")
	message.SetString(lang, string(TopicOrderOutForDelivery), "Your order %s is out for delivery.")
	message.SetString(lang, string(TopicOrderCompleted), "Your order %s is complete. Thank you for dining with us!")
	message.SetString(lang, string(TopicOrderDelivered), "Your order %s has been delivered. Enjoy your meal!")
	message.SetString(lang, string(TopicOrderCancelled), "Sorry, your order %s was cancelled. The reason is shown on your order page.")
}

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Renderer turns a topic and its arguments into SMS copy.
type Renderer struct {
	loc Localizer
}

// NewRenderer builds a renderer for the closest catalog language to a BCP 47 tag.
func NewRenderer(lang string) *Renderer {
	available := message.DefaultCatalog.Languages()
	tag := language.English
	if requested, err := language.Parse(lang); err == nil && len(available) > 0 {
		_, idx, confidence := language.NewMatcher(available).Match(requested)
		if confidence != language.No {
			tag = available[idx]
		}
	}
	return &Renderer{loc: message.NewPrinter(tag)}
}

// Render returns the localized text for topic. Arguments follow the order of the
// placeholders in the template.
func (r *Renderer) Render(topic Topic, args ...any) string {
	return r.loc.Sprintf(string(topic), args...)
}
