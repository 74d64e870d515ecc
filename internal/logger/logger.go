package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	return New(os.Stderr, dev)
}

// New creates a logger writing JSON to w, or a console format at debug level when dev is set.
func New(w io.Writer, dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

var _ http.RoundTripper = (*RequestLogger)(nil)

// RequestLogger logs each outgoing HTTP request with the logger carried by the
// request context.
type RequestLogger struct {
	next http.RoundTripper
}

func NewRequestLogger(next http.RoundTripper) *RequestLogger {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RequestLogger{next: next}
}

func (l *RequestLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	log := zerolog.Ctx(req.Context())

	resp, err := l.next.RoundTrip(req)
	if err != nil {
		log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.RequestURI()).
			Dur("duration", time.Since(started)).
			Msg("http request")

		return resp, err
	}

	event := log.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = log.Warn()
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.RequestURI()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("http request")

	return resp, nil
}
