// Package log provides slog handlers.
package log

import (
	"context"
	"log/slog"

	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

// ContextHandler adds the correlation id, the signed in user and the Discord guild found in the
// [context.Context] to every [slog.Record]. It uses the attribute keys of
// [middleware.RequestLogger] so request logs and logs written by handlers, services and the bot
// can be joined on them. None of the values has to be present.
type ContextHandler struct {
	slog.Handler
}

func New(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		r.AddAttrs(slog.String(middleware.RequestLoggerKeyCorrelationID, id))
	}

	// only dashboard routes behind the session middleware have a user
	if user, ok := model.GetUserFromContext(ctx); ok {
		r.AddAttrs(slog.String(middleware.RequestLoggerKeyUser, user.ID))
	}

	// only bot interactions have a guild
	if guildID, ok := middleware.GetGuildID(ctx); ok {
		r.AddAttrs(slog.String(middleware.RequestLoggerKeyGuild, guildID))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return New(h.Handler.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return New(h.Handler.WithGroup(name))
}
