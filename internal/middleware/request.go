package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationIDKey ctxKey = iota
	guildIDKey
)

// Attribute keys shared by the [RequestLogger] and the context aware slog handler.
const (
	RequestLoggerKeyCorrelationID = "correlationId"
	RequestLoggerKeyUser          = "user"
	RequestLoggerKeyGuild         = "guild"
)

// CorrelationIDHeader is the response header carrying the correlation ID of a request.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID is a Gin middleware that adds a generated correlation ID to the
// [http.Request.Context].
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		ctx := NewContextWithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// NewContextWithCorrelationID returns a new [context.Context] that carries value correlationID.
func NewContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// GetCorrelationID returns the correlation ID stored in the ctx, if any. It had to have been set by
// the [CorrelationID] middleware before.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok
}

// NewContextWithGuildID returns a new [context.Context] carrying the Discord guild an interaction
// came from.
func NewContextWithGuildID(ctx context.Context, guildID string) context.Context {
	return context.WithValue(ctx, guildIDKey, guildID)
}

// GetGuildID returns the guild stored in the ctx, if any.
func GetGuildID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(guildIDKey).(string)
	return id, ok
}

// quietRoutes are suffixes of routes probed often. Their successful requests are logged at debug
// level.
var quietRoutes = []string{"/health"}

func isQuiet(route string) bool {
	for _, suffix := range quietRoutes {
		if strings.HasSuffix(route, suffix) {
			return true
		}
	}
	return false
}

// RequestLogger logs method, route, status and latency of every request. Client errors are logged
// as warnings and server errors as errors, both with the errors the handlers pushed.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		attrs := make([]slog.Attr, 0, 3)
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		case isQuiet(c.FullPath()):
			level = slog.LevelDebug
		}

		attrs = append(attrs, requestAttribute(c, start), slog.Group("response",
			slog.Time("time", start.Add(latency)),
			slog.Duration("latency", latency),
			slog.Int("status", status),
			slog.Int("size", c.Writer.Size()),
		))
		logger.LogAttrs(c.Request.Context(), level, "Processed HTTP request", attrs...)
	}
}

func requestAttribute(c *gin.Context, start time.Time) slog.Attr {
	params := make(map[string]string, len(c.Params))
	for _, param := range c.Params {
		params[param.Key] = param.Value
	}

	return slog.Group("request",
		slog.Time("time", start),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("route", c.FullPath()),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Any("params", params),
		slog.String("userAgent", c.Request.UserAgent()),
		slog.String("ip", c.ClientIP()),
	)
}
