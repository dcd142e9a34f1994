package kirvano

import "time"

// Metrics defines the interface for tracking webhook receiver operations.
// All methods are optional - the handler gracefully handles nil metrics.
type Metrics interface {
	// RecordWebhookEvent records a webhook event received from Kirvano.
	// eventType: The event type tag (e.g. "SALE_APPROVED", "UNKNOWN")
	// status: "success", "user_not_found" or "error"
	RecordWebhookEvent(eventType, status string)

	// RecordWebhookProcessingDuration records how long a webhook took to process.
	RecordWebhookProcessingDuration(eventType string, duration time.Duration)

	// RecordWebhookError records a webhook processing error.
	// errorType: e.g. "auth_failed", "invalid_payload", "processing_error"
	RecordWebhookError(errorType string)

	// RecordNotification records an outbound admin notification attempt.
	// status: "sent", "skipped" or "error"
	RecordNotification(status string)

	// RecordNotificationDuration records how long a notification delivery took.
	RecordNotificationDuration(duration time.Duration)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordWebhookEvent(_, _ string)                            {}
func (n *NoopMetrics) RecordWebhookProcessingDuration(_ string, _ time.Duration) {}
func (n *NoopMetrics) RecordWebhookError(_ string)                               {}
func (n *NoopMetrics) RecordNotification(_ string)                               {}
func (n *NoopMetrics) RecordNotificationDuration(_ time.Duration)                {}
