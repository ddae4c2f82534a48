package guidechat

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// guidechat.go and makes it easy to discover all available knobs at a
// glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtualgoa/guidechat/internal/record"
)

// Option configures a Client during construction in New.
//
// Options are applied before the Gemini provider is built, so transport
// options (timeout, debug logging) affect the HTTP client handed to the
// provider. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithModel overrides the Gemini model identifier used for every
// generation call. The value must be non-empty.
func WithModel(model string) Option {
	return func(c *Client) error {
		if model == "" {
			return fmt.Errorf("model must be non-empty")
		}
		c.model = model
		return nil
	}
}

// WithRequestTimeout bounds one generation round trip. After the deadline
// the turn resolves to the connectivity fallback message. The value must be
// greater than zero.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be > 0")
		}
		c.requestTimeout = d
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used for provider
// traffic.
//
// Prefer the per-request timeout where possible; this is a coarse safety
// net that bounds the total time spent on a single HTTP request (including
// connection, TLS handshake, redirects, and reading the response). The
// value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the provider transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments: dumps include full
// request and response bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithAudioCapture wires the platform audio capability used for
// push-to-talk. Without it every StartRecording fails with
// ErrDeviceUnavailable.
func WithAudioCapture(opener record.Opener) Option {
	return func(c *Client) error {
		if opener == nil {
			return fmt.Errorf("audio opener must be non-nil")
		}
		c.opener = opener
		return nil
	}
}

// WithLogger replaces the default service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = log
		return nil
	}
}
