// Package web serves the password-gated league dashboard over HTTP.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"github.com/omarshaarawi/leaguedash/internal/dashboard"
	"github.com/omarshaarawi/leaguedash/internal/gate"
)

const (
	sessionCookie = "leaguedash_session"
	csrfField     = "csrf_token"
)

type Options struct {
	// CSRFKey enables CSRF protection on the forms when non-empty. It must
	// be 32 bytes.
	CSRFKey       []byte
	SecureCookies bool
}

type Server struct {
	dashboard *dashboard.Dashboard
	gate      *gate.Gatekeeper
	opts      Options
}

func NewServer(d *dashboard.Dashboard, g *gate.Gatekeeper, opts Options) *Server {
	return &Server{dashboard: d, gate: g, opts: opts}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)

	r.Group(func(r chi.Router) {
		if len(s.opts.CSRFKey) > 0 {
			r.Use(s.markPlaintext)
			r.Use(csrf.Protect(s.opts.CSRFKey,
				csrf.Secure(s.opts.SecureCookies),
				csrf.Path("/"),
				csrf.FieldName(csrfField),
				csrf.SameSite(csrf.SameSiteLaxMode),
				csrf.ErrorHandler(http.HandlerFunc(handleCSRFFailure)),
			))
		}
		r.Use(s.sessions)

		r.Get("/", s.handleIndex)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.Get("/chart.svg", s.handleChart)
	})

	return r
}

type sessionKey struct{}

// sessions attaches a gate session to every request, issuing a new cookie when
// the browser has none or presents one this process never issued.
func (s *Server) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil && s.gate.Known(c.Value) {
			id = c.Value
		} else {
			id = s.gate.NewSession()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

// markPlaintext tells the CSRF middleware that a request arrived over plain
// HTTP so its TLS-only referer checks are skipped.
func (s *Server) markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && !s.opts.SecureCookies {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
