package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/pasturize/internal/ctxutil"
)

func newObservedWriter() (*LogWriterAdapter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return NewLogWriterAdapter(zap.New(core)), logs
}

func TestLogWriterAdapter_LogCreate(t *testing.T) {
	w, logs := newObservedWriter()
	ctx := ctxutil.WithActorID(context.Background(), "cli")

	if err := w.LogCreate(ctx, "report", "R1"); err != nil {
		t.Fatalf("LogCreate failed: %v", err)
	}

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "report create" {
		t.Errorf("expected message 'report create', got %q", entry.Message)
	}
	if entry.LoggerName != "audit" {
		t.Errorf("expected logger name 'audit', got %q", entry.LoggerName)
	}

	fields := entry.ContextMap()
	if fields["entity_id"] != "R1" {
		t.Errorf("expected entity_id R1, got %v", fields["entity_id"])
	}
	if fields["actor"] != "cli" {
		t.Errorf("expected actor cli, got %v", fields["actor"])
	}
}

func TestLogWriterAdapter_LogUpdate(t *testing.T) {
	w, logs := newObservedWriter()

	if err := w.LogUpdate(context.Background(), "pasture", "P1", "status", "in_progress", "complete"); err != nil {
		t.Fatalf("LogUpdate failed: %v", err)
	}

	fields := logs.All()[0].ContextMap()
	if fields["field"] != "status" || fields["old"] != "in_progress" || fields["new"] != "complete" {
		t.Errorf("unexpected fields %v", fields)
	}
	if _, ok := fields["actor"]; ok {
		t.Error("expected no actor field without actor in context")
	}
}

func TestLogWriterAdapter_LogDelete(t *testing.T) {
	w, logs := newObservedWriter()

	if err := w.LogDelete(context.Background(), "report", "R9"); err != nil {
		t.Fatalf("LogDelete failed: %v", err)
	}
	if got := logs.FilterField(zap.String("action", "delete")).Len(); got != 1 {
		t.Errorf("expected 1 delete entry, got %d", got)
	}
}
