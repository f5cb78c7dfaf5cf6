// Package service holds the marketplace business rules. Services depend on
// repository interfaces; event publishing and notices are best effort and
// never fail a request.
package service

import (
	"context"
	"log/slog"

	"github.com/KiranKumarPM/servon-1/internal/notify"
)

func logPublishError(ctx context.Context, logger *slog.Logger, eventType string, err error) {
	if err == nil {
		return
	}
	logger.ErrorContext(ctx, "failed to publish event",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

func broadcast(ctx context.Context, notifier notify.Broadcaster, logger *slog.Logger, userID string, msg notify.Message) {
	if userID == "" {
		return
	}
	if err := notifier.Broadcast(ctx, notify.UserChannel(userID), msg); err != nil {
		logger.WarnContext(ctx, "failed to broadcast notice",
			slog.String("kind", msg.Kind),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
