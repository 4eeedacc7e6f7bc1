package observability

// EventEnvelope wraps operational events published to the events exchange.
// Service and OccurredAt are stamped by PublishEvent.
type EventEnvelope struct {
	EventType  string `json:"event_type"`
	EventName  string `json:"event_name"`
	Service    string `json:"service,omitempty"`
	OccurredAt string `json:"occurred_at,omitempty"`
	Payload    any    `json:"payload"`
}

// CorrelationHeaders assembles the AMQP headers that tie an event back to
// the request and trace that produced it. Empty values are omitted.
func CorrelationHeaders(requestID, traceID string) map[string]string {
	headers := make(map[string]string, 2)
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
