// Package gateway implements the public edge of the platform: a static
// relay that forwards API requests to the users and content services
// unchanged. It holds no business logic and no credentials; bearer
// tokens pass through for the backends to verify.
package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/redact"
)

// apiPrefix is stripped from incoming paths before forwarding; the
// backends serve their resources at the root.
const apiPrefix = "/api/v1"

// contentPrefixes are the first path segments owned by the content
// service. Everything else under the API prefix belongs to the users
// service.
var contentPrefixes = []string{
	"/categories",
	"/places",
	"/images",
	"/reviews",
	"/trail-status",
}

// Relay proxies requests to the two backend services. A backend that
// cannot be reached surfaces as 503 Service Unavailable; backend
// responses, including their error statuses, are relayed verbatim.
type Relay struct {
	usersProxy   *httputil.ReverseProxy
	contentProxy *httputil.ReverseProxy
	logger       *slog.Logger
}

// NewRelay creates a Relay forwarding to the given base URLs.
// If logger is nil, a default logger will be used.
func NewRelay(usersBaseURL, contentBaseURL string, logger *slog.Logger) (*Relay, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "relay"))

	usersProxy, err := newProxy(usersBaseURL, logger)
	if err != nil {
		return nil, err
	}
	contentProxy, err := newProxy(contentBaseURL, logger)
	if err != nil {
		return nil, err
	}

	return &Relay{
		usersProxy:   usersProxy,
		contentProxy: contentProxy,
		logger:       logger,
	}, nil
}

// Routes registers the relay on the given router.
func (rl *Relay) Routes(r chi.Router) {
	r.HandleFunc(apiPrefix+"/*", rl.forward)
}

// forward picks the backend by the first path segment after the API
// prefix and hands the request to its proxy.
func (rl *Relay) forward(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, apiPrefix)

	for _, prefix := range contentPrefixes {
		if rest == prefix || strings.HasPrefix(rest, prefix+"/") {
			rl.contentProxy.ServeHTTP(w, r)
			return
		}
	}

	if rest == "/users" || strings.HasPrefix(rest, "/users/") {
		rl.usersProxy.ServeHTTP(w, r)
		return
	}

	shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
}

func newProxy(baseURL string, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	return &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.URL.Path = strings.TrimPrefix(req.URL.Path, apiPrefix)
			req.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("backend unreachable",
				slog.String("target", target.Host),
				slog.String("path", r.URL.Path),
				slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Service unavailable")
		},
	}, nil
}
