package guidechat

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps every provider request/response for troubleshooting
// API communication problems (timeouts, malformed requests, unexpected
// responses).
//
// Enable with GUIDECHAT_DEBUG=true or DEBUG=true. Dumps include full bodies
// — never leave this on in production, and keep the log output secured.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := dt.base
	if rt == nil {
		rt = http.DefaultTransport
	}

	if debugLoggingRequested() {
		if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		if debugLoggingRequested() {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if debugLoggingRequested() {
		if respDump, err := httputil.DumpResponse(resp, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// debugLoggingRequested reports whether HTTP debug logging is enabled via
// GUIDECHAT_DEBUG=true (targeted) or DEBUG=true (general development flag).
func debugLoggingRequested() bool {
	return os.Getenv("GUIDECHAT_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
