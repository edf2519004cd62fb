package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"derrclan.com/daily-bread/internal/bible"
	"derrclan.com/daily-bread/internal/resolver"
)

// Server answers verse requests over HTTP.
type Server struct {
	resolver *resolver.Resolver
}

// Muxer returns the routes served for r.
func Muxer(r *resolver.Resolver) *http.ServeMux {
	s := &Server{resolver: r}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/daily", s.handleDaily)
	mux.HandleFunc("GET /api/verse", s.handleVerse)
	mux.HandleFunc("GET /api/books", s.handleBooks)
	mux.HandleFunc("GET /api/bibles", s.handleBibles)

	return mux
}

// handleDaily returns today's verse.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	verse, err := s.resolver.DailyVerse(r.Context())
	if err != nil {
		s.writeError(w, "failed to resolve daily verse", err)
		return
	}
	writeJSON(w, http.StatusOK, verseResponse(verse))
}

// handleVerse returns a random verse. Accepts an optional "book" query
// parameter to draw from a single book.
func (s *Server) handleVerse(w http.ResponseWriter, r *http.Request) {
	book := r.URL.Query().Get("book")

	verse, err := s.resolver.Resolve(r.Context(), resolver.Policy{
		Seeding: resolver.SeedEntropy,
		Book:    book,
	})
	if err != nil {
		s.writeError(w, "failed to resolve verse", err, "book", book)
		return
	}
	writeJSON(w, http.StatusOK, verseResponse(verse))
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.resolver.Books(r.Context())
	if err != nil {
		s.writeError(w, "failed to list books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleBibles(w http.ResponseWriter, r *http.Request) {
	bibles, err := s.resolver.Bibles(r.Context())
	if err != nil {
		s.writeError(w, "failed to list bibles", err)
		return
	}
	writeJSON(w, http.StatusOK, bibles)
}

func verseResponse(v *bible.Verse) map[string]any {
	return map[string]any{
		"reference": v.Reference(),
		"verse":     v,
	}
}

// writeError logs err and maps it to a status: lookups with nothing to
// return are 404, anything from the upstream API is 502.
func (s *Server) writeError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, resolver.ErrInvalidBook),
		errors.Is(err, resolver.ErrNoBooksAvailable),
		errors.Is(err, resolver.ErrNoChaptersAvailable),
		errors.Is(err, resolver.ErrNoVersesAvailable):
		status = http.StatusNotFound
		slog.Warn(msg, append(attrs, "error", err)...)
	default:
		slog.Error(msg, append(attrs, "error", err)...)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
