// Package gateway sends assembled requests to the generative-AI provider
// and shields the conversation from its failure modes. Every call resolves
// to a user-visible chat message: provider text when available, a fixed
// fallback otherwise. Faults never propagate as errors to the rendering
// path.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtualgoa/guidechat/internal/request"
)

// Fallback strings substituted for unusable provider responses. An empty
// answer is softened instead of surfaced as an error; a transport fault is
// reported as a connectivity problem while the cause goes to the log.
const (
	FallbackNoAnswer     = "I couldn't interpret that specifically, but ask me anything about the history!"
	FallbackConnectivity = "Sorry, I'm having trouble connecting to the history archives (API Error)."
)

// DefaultTimeout bounds one generation round trip.
const DefaultTimeout = 30 * time.Second

// Provider is the narrow boundary to the external generative-AI service.
// Generate returns the produced text, which may be empty on a well-formed
// but answerless response. The wire format is the implementation's concern.
type Provider interface {
	Generate(ctx context.Context, req *request.Request) (string, error)
}

// Gateway wraps a Provider with timeout enforcement, response validation
// and the fallback policy. It is stateless and safe for concurrent use
// across independent conversations.
type Gateway struct {
	provider Provider
	timeout  time.Duration
	log      zerolog.Logger
}

// New builds a Gateway. A non-positive timeout selects DefaultTimeout.
func New(provider Provider, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{provider: provider, timeout: timeout, log: log}
}

// Send performs one generation call. The returned string is always suitable
// for appending as an assistant message; failed turns are not retried here.
func (g *Gateway) Send(ctx context.Context, req *request.Request) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.provider.Generate(ctx, req)
	if err != nil {
		g.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("generation failed")
		fallbacksTotal.WithLabelValues("connectivity").Inc()
		return FallbackConnectivity
	}
	if strings.TrimSpace(text) == "" {
		g.log.Debug().Dur("elapsed", time.Since(start)).Msg("provider returned no text")
		fallbacksTotal.WithLabelValues("no_answer").Inc()
		return FallbackNoAnswer
	}
	repliesTotal.Inc()
	return text
}
