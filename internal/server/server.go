package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tom7523326/studyplan/embed/web"
	"github.com/tom7523326/studyplan/internal/export"
	"github.com/tom7523326/studyplan/internal/stats"
	"github.com/tom7523326/studyplan/internal/store"
	"github.com/tom7523326/studyplan/pkg/models"
)

type Server struct {
	store  *store.Store
	server *http.Server
}

func NewServer(s *store.Store) *Server {
	return &Server{store: s}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/report", s.handleReport)

	// Static files
	mux.Handle("/", http.FileServer(http.FS(web.Assets)))

	return mux
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.store.All()
	if date := r.URL.Query().Get("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		tasks = s.store.TasksFor(day)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.respond(w, tasks)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	scope := stats.ScopeAll
	if q := r.URL.Query().Get("scope"); q != "" {
		parsed, err := stats.ParseScope(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scope = parsed
	}
	s.respond(w, stats.Summarize(scope, s.store.All(), time.Now()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.BuildReport(s.store.All())))
}

func (s *Server) respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
