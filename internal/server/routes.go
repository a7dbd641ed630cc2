package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (log and event streaming)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Leagues
	mux.HandleFunc("/api/leagues", s.handleLeaguesRoute) // GET (list), POST (register)
	mux.HandleFunc("/api/leagues/", s.handleLeagueRoutes)

	// API routes - Summaries
	mux.HandleFunc("/api/summaries/", s.handleSummaryRoutes) // GET /{id}, GET /{id}/report.pdf

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/jobs", s.app.SchedulerHandler.ListJobsHandler)
	mux.HandleFunc("/api/scheduler/jobs/", s.handleSchedulerJobRoutes)

	// API routes - Yahoo OAuth
	mux.HandleFunc("/api/auth/yahoo", s.app.AuthHandler.YahooStatusHandler)          // GET - connection status
	mux.HandleFunc("/api/auth/yahoo/login", s.app.AuthHandler.YahooLoginHandler)     // GET - redirect to Yahoo
	mux.HandleFunc("/api/auth/yahoo/callback", s.app.AuthHandler.YahooCallbackHandler)

	// API routes - Mail delivery settings
	mux.HandleFunc("/api/mail/config", s.handleMailConfigRoute) // GET, POST
	mux.HandleFunc("/api/mail/test", s.app.MailerHandler.SendTestHandler)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleLeaguesRoute routes /api/leagues requests (list and register)
func (s *Server) handleLeaguesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.LeagueHandler.ListLeaguesHandler(w, r)
	case "POST":
		s.app.LeagueHandler.RegisterLeagueHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLeagueRoutes routes /api/leagues/{id} requests and subpaths
func (s *Server) handleLeagueRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// POST /api/leagues/{id}/sync
	if r.Method == "POST" && strings.HasSuffix(path, "/sync") {
		s.app.LeagueHandler.SyncLeagueHandler(w, r)
		return
	}

	// POST /api/leagues/{id}/recap
	if r.Method == "POST" && strings.HasSuffix(path, "/recap") {
		s.app.RecapHandler.GenerateRecapHandler(w, r)
		return
	}

	// GET /api/leagues/{id}/summaries
	if r.Method == "GET" && strings.HasSuffix(path, "/summaries") {
		s.app.SummaryHandler.ListSummariesHandler(w, r)
		return
	}

	// /api/leagues/{id}
	switch r.Method {
	case "GET":
		s.app.LeagueHandler.GetLeagueHandler(w, r)
	case "DELETE":
		s.app.LeagueHandler.DeleteLeagueHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSummaryRoutes routes /api/summaries/{id} requests and subpaths
func (s *Server) handleSummaryRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// GET /api/summaries/{id}/report.pdf
	if strings.HasSuffix(r.URL.Path, "/report.pdf") {
		s.app.SummaryHandler.SummaryReportHandler(w, r)
		return
	}

	s.app.SummaryHandler.GetSummaryHandler(w, r)
}

// handleSchedulerJobRoutes routes /api/scheduler/jobs/{name} subpaths
func (s *Server) handleSchedulerJobRoutes(w http.ResponseWriter, r *http.Request) {
	// POST /api/scheduler/jobs/{name}/trigger
	if r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/trigger") {
		s.app.SchedulerHandler.TriggerJobHandler(w, r)
		return
	}

	http.Error(w, "Not found", http.StatusNotFound)
}

// handleMailConfigRoute routes /api/mail/config requests
func (s *Server) handleMailConfigRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.MailerHandler.GetConfigHandler(w, r)
	case "POST":
		s.app.MailerHandler.SetConfigHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
