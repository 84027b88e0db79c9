// Package api serves the reports of the portfolios as JSON over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrUnknownPortfolio is returned by a Reporter for a portfolio without a ledger.
var ErrUnknownPortfolio = errors.New("unknown portfolio")

// Reporter computes the report of a portfolio.
type Reporter interface {
	Portfolios() ([]string, error)
	Report(ctx context.Context, portfolio string) (*fundfolio.Report, error)
}

// Server is a read-only HTTP surface over the reports.
//
// Each request computes a fresh report.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	reporter Reporter
	log      zerolog.Logger
}

// New creates a server listening on addr.
func New(addr string, reporter Reporter, log zerolog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		reporter: reporter,
		log:      log.With().Str("component", "server").Logger(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/portfolios", s.handlePortfolios)
	s.router.Route("/portfolios/{name}", func(r chi.Router) {
		r.Get("/", s.report(func(rep *fundfolio.Report) any { return rep }))
		r.Get("/positions", s.report(func(rep *fundfolio.Report) any { return rep.Positions }))
		r.Get("/value", s.report(func(rep *fundfolio.Report) any {
			return map[string]any{
				"value":                 rep.Value,
				"cash_flows":            rep.CashFlows,
				"cumulative_investment": rep.CumulativeInvestment,
			}
		}))
		r.Get("/returns", s.report(func(rep *fundfolio.Report) any {
			return map[string]any{
				"series":    rep.ReturnSeries,
				"mwr_today": rep.MWRToday,
			}
		}))
		r.Get("/rolling", s.report(func(rep *fundfolio.Report) any { return rep.Rolling }))
		r.Get("/risk", s.report(func(rep *fundfolio.Report) any { return rep.Risk }))
		r.Get("/gains", s.report(func(rep *fundfolio.Report) any { return rep.Gains }))
		r.Get("/overview", s.report(func(rep *fundfolio.Report) any { return rep.Overview }))
		r.Get("/flows", s.report(func(rep *fundfolio.Report) any { return rep.Flows }))
		r.Get("/coverage", s.report(func(rep *fundfolio.Report) any { return rep.Coverage }))
		r.Get("/report.html", s.handleHTML)
	})
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	names, err := s.reporter.Portfolios()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// report returns a handler writing a part of the report as JSON.
func (s *Server) report(part func(*fundfolio.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.reporter.Report(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, part(rep))
	}
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rep, err := s.reporter.Report(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := HTML(renderer.ReportMarkdown(rep, name), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// HTML converts a markdown report into a standalone HTML page.
func HTML(markdown, title string) ([]byte, error) {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title></head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrUnknownPortfolio) {
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
