// Package worker runs the audit consumer: ledger change events come in
// over AMQP and land as rows in the audit_log table.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

// AuditStore persists consumed events.
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, e core.AuditEntry) error
}

// EventSource delivers ledger events until the context is cancelled.
type EventSource interface {
	Consume(ctx context.Context, handler func(*events.LedgerEvent) error) error
}

type AuditWorker struct {
	store  AuditStore
	source EventSource
}

func NewAuditWorker(store AuditStore, source EventSource) *AuditWorker {
	return &AuditWorker{
		store:  store,
		source: source,
	}
}

// Run consumes events until ctx is cancelled. A handler error nacks the
// delivery for redelivery; the insert is idempotent on event id, so a
// redelivered event never produces a duplicate row.
func (w *AuditWorker) Run(ctx context.Context) error {
	err := w.source.Consume(ctx, func(event *events.LedgerEvent) error {
		return w.handle(ctx, event)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("consume ledger events: %w", err)
	}
	return nil
}

func (w *AuditWorker) handle(ctx context.Context, event *events.LedgerEvent) error {
	if event.EventID == "" || event.Entity == "" || event.Action == "" {
		// Malformed event; recording it would be noise and retrying
		// cannot fix it.
		slog.WarnContext(ctx, "Dropping incomplete ledger event",
			"event_id", event.EventID,
			"entity", event.Entity,
			"action", event.Action)
		return nil
	}

	entry := core.AuditEntry{
		EventID:    event.EventID,
		Entity:     event.Entity,
		Action:     event.Action,
		EntityID:   event.EntityID,
		UserID:     event.UserID,
		OccurredAt: event.OccurredAt,
	}

	if err := w.store.InsertAuditEntry(ctx, entry); err != nil {
		return fmt.Errorf("persist audit entry: %w", err)
	}

	slog.InfoContext(ctx, "Audit entry recorded",
		"event_id", event.EventID,
		"entity", event.Entity,
		"action", event.Action,
		"entity_id", event.EntityID,
		"user_id", event.UserID)

	return nil
}
