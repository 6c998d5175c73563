package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"

	"github.com/omarshaarawi/leaguedash/internal/chart"
	"github.com/omarshaarawi/leaguedash/internal/dashboard"
	"github.com/omarshaarawi/leaguedash/internal/gate"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF validation failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid form token, reload the page and try again", http.StatusForbidden)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.dashboard.View(r.Context(), sessionID(r))
	s.render(w, r, state)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	state := s.dashboard.SubmitPassword(r.Context(), sessionID(r), r.PostFormValue("password"))
	s.render(w, r, state)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	state := s.dashboard.Refresh(r.Context(), sessionID(r))
	s.render(w, r, state)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.dashboard.Logout(sessionID(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.dashboard.Analysis(r.Context(), sessionID(r))
	if errors.Is(err, dashboard.ErrUnauthenticated) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "couldn't load data", http.StatusBadGateway)
		return
	}
	if analysis.Empty {
		http.Error(w, "no rosters to plot", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderScatter(&buf, analysis.Standings, analysis.Insights.AveragePoints); err != nil {
		slog.Error("Error rendering chart", "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Error writing chart", "error", err)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, state dashboard.State) {
	status := statusFor(state)
	token := csrf.Token(r)

	var component templ.Component
	if state.Authenticated() {
		component = DashboardPage(state, token)
	} else {
		component = LoginPage(state, token)
	}

	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

func statusFor(state dashboard.State) int {
	switch {
	case state.Auth == gate.StateRejected:
		return http.StatusUnauthorized
	case state.Error != "":
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
