package directory

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/klauspost/compress/gzhttp"
	"github.com/wolfeidau/roster/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TransportConfig controls the HTTP client used to talk to the directory.
type TransportConfig struct {
	// Headers are attached to every request, typically the session cookie of an
	// already signed in browser.
	Headers map[string]string
	Cookie  string

	// Cache enables an HTTP response cache honoring Cache-Control. When CacheDir
	// is empty the cache is held in memory for the lifetime of the client.
	Cache    bool
	CacheDir string

	// Base is the innermost transport, http.DefaultTransport when nil.
	Base http.RoundTripper
}

// NewHTTPClient builds the directory transport chain:
// request logging, tracing, session headers, optional cache, compressed responses.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}

	var rt http.RoundTripper = gzhttp.Transport(base)

	if cfg.Cache {
		var cache httpcache.Cache
		if cfg.CacheDir == "" {
			cache = httpcache.NewMemoryCache()
		} else {
			cache = diskcache.New(cfg.CacheDir)
		}
		cached := httpcache.NewTransport(cache)
		cached.Transport = rt
		rt = cached
	}

	headers := make(http.Header, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	if cfg.Cookie != "" {
		headers.Set("Cookie", cfg.Cookie)
	}
	if len(headers) > 0 {
		rt = &headerTransport{next: rt, headers: headers}
	}

	rt = otelhttp.NewTransport(rt)
	rt = logger.NewRequestLogger(rt)

	return &http.Client{Transport: rt}
}

// headerTransport sets a fixed set of headers on each outgoing request.
type headerTransport struct {
	next    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header[k] = v
	}
	return t.next.RoundTrip(req)
}
