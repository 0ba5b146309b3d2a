package queue

// MessageQueue fans accepted webhook events out to downstream consumers.
// Subjects carry one gateway event type each ("payments.webhook.<event>");
// delivery is fire-and-forget, consumers live outside this service.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Close() error
}
