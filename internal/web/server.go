// Package web provides an HTTP status server for the noise-meter daemon.
package web

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/sweeney/noise-meter/internal/status"
	"github.com/sweeney/noise-meter/internal/store"
)

// EventSource lists recently stored noise events. Nil when the event
// store is disabled.
type EventSource interface {
	Recent(limit int) ([]store.Event, error)
}

// recentEvents is how many stored events the index page shows.
const recentEvents = 10

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	events     EventSource
}

// New creates a Server that reads state from the given tracker. events
// may be nil.
func New(addr string, tracker *status.Tracker, events EventSource) *Server {
	s := &Server{tracker: tracker, events: events}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}

	snap := s.tracker.Snapshot()

	var events []store.Event
	if s.events != nil {
		var err error
		events, err = s.events.Recent(recentEvents)
		if err != nil {
			log.Printf("web: list events: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, events)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
