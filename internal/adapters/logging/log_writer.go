// Package logging adapts zap to the audit log port.
package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/pasturize/internal/ctxutil"
	"github.com/example/pasturize/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter by writing structured
// audit records to a zap logger.
type LogWriterAdapter struct {
	logger *zap.Logger
}

// NewLogWriterAdapter creates a new LogWriterAdapter. Records are tagged
// with the "audit" logger name.
func NewLogWriterAdapter(logger *zap.Logger) *LogWriterAdapter {
	return &LogWriterAdapter{logger: logger.Named("audit")}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update",
		zap.String("field", fieldName),
		zap.String("old", oldValue),
		zap.String("new", newValue),
	)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "delete")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, action string, extra ...zap.Field) error {
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
	}
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		fields = append(fields, zap.String("actor", actor))
	}
	w.logger.Info(entityType+" "+action, append(fields, extra...)...)
	return nil
}

// Ensure LogWriterAdapter implements the interface.
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
