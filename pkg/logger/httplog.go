package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// HTTPLogger writes one structured line per handled request to a dedicated
// access log, separate from the application log. Configured via
// HTTP_LOG_FILE; unset means the access log is discarded.
type HTTPLogger struct {
	log *slog.Logger
}

// NewHTTPLogger creates the access logger from environment settings.
func NewHTTPLogger() *HTTPLogger {
	var w io.Writer = io.Discard
	if path := os.Getenv("HTTP_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		}
	}
	return &HTTPLogger{
		log: slog.New(slog.NewJSONHandler(w, nil)),
	}
}

// LogRequest records a single handled HTTP request.
func (h *HTTPLogger) LogRequest(ip, method, uri string, status int, latency time.Duration, userAgent, requestID string) {
	h.log.Info("request",
		slog.String("ip", ip),
		slog.String("method", method),
		slog.String("uri", uri),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("user_agent", userAgent),
		slog.String("request_id", requestID),
	)
}
