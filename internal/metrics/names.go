package metrics

// Metric names shared across components.
const (
	EventsSubmitted       = "events_submitted_total"
	EventsRejected        = "events_rejected_total"
	BufferSize            = "writer_buffer_size"
	FlushDuration         = "writer_flush_duration_seconds"
	FlushedEvents         = "writer_flushed_events_total"
	FlushFailures         = "writer_flush_failures_total"
	FallbackEvents        = "writer_fallback_events_total"
	ReconciledEvents      = "writer_reconciled_events_total"
	DetectionsDropped     = "detector_dropped_total"
	CriticalEventsCreated = "critical_events_total"
	AlertDeliveries       = "alert_deliveries_total"
	RetentionArchived     = "retention_archived_total"
	RetentionPurged       = "retention_purged_total"
	IntegrityViolations   = "integrity_violations_total"
)
