package log

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Transport is an http.RoundTripper that stamps every outbound request with
// X-Request-ID and logs the call once it completes.
type Transport struct {
	Base   http.RoundTripper
	Logger zerolog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger zerolog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqID := req.Header.Get(headerRequestID)
	if reqID == "" {
		reqID = RequestID(req.Context())
	}
	if reqID == "" {
		reqID = uuid.New().String()
	}

	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())
	out.Header.Set(headerRequestID, reqID)

	resp, err := t.Base.RoundTrip(out)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		// Superseded requests are cancelled on purpose.
		ev := t.Logger.Warn()
		if errors.Is(err, context.Canceled) {
			ev = t.Logger.Debug()
		}
		ev.
			Str(FieldRequestID, reqID).
			Str(FieldMethod, req.Method).
			Str(FieldURL, req.URL.Redacted()).
			Float64(FieldLatency, latency).
			Err(err).
			Msg("outbound request failed")
		return nil, err
	}

	t.Logger.Debug().
		Str(FieldRequestID, reqID).
		Str(FieldMethod, req.Method).
		Str(FieldURL, req.URL.Redacted()).
		Int(FieldStatus, resp.StatusCode).
		Float64(FieldLatency, latency).
		Msg("outbound request completed")
	return resp, nil
}
