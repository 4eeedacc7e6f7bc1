package observability

import (
	"context"
	"time"
)

// Publisher sends JSON events to the operational events exchange. Satisfied
// by the rabbitmq package's broker publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any, headers map[string]string) error
}

var (
	defaultPublisher Publisher
	defaultService   string
)

// SetPublisher installs the process-wide events publisher and the service
// name stamped onto every envelope. A nil publisher turns PublishEvent into
// a no-op.
func SetPublisher(publisher Publisher, service string) {
	defaultPublisher = publisher
	defaultService = service
}

// PublishEvent stamps the envelope and sends it through the installed
// publisher, counting failures. Callers treat event publishing as
// best-effort.
func PublishEvent(ctx context.Context, routingKey string, envelope EventEnvelope, headers map[string]string) error {
	if defaultPublisher == nil {
		return nil
	}

	envelope.Service = defaultService
	envelope.OccurredAt = time.Now().UTC().Format(time.RFC3339Nano)

	err := defaultPublisher.Publish(ctx, routingKey, envelope, headers)
	if err != nil {
		IncAMQPPublishError()
	}
	return err
}
