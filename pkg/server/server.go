package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/engram-dev/engram/pkg/utils/logging"
)

// Server exposes the memory service as a REST API. Authentication is
// a bearer-token check applied before any handler runs.
type Server struct {
	uc    *memory.UseCase
	token string
	mux   *http.ServeMux
}

// New creates a new REST server for the given usecase
func New(uc *memory.UseCase, token string) *Server {
	s := &Server{
		uc:    uc,
		token: token,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /memories", s.handleCreate)
	s.mux.HandleFunc("GET /memories", s.handleList)
	s.mux.HandleFunc("GET /memories/{id}", s.handleGet)
	s.mux.HandleFunc("DELETE /memories/{id}", s.handleDelete)
	s.mux.HandleFunc("POST /search", s.handleSearch)
	s.mux.HandleFunc("POST /resync", s.handleResync)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mux.ServeHTTP(w, r)
}

func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

type createRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Source  string   `json:"source"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source, err := model.ParseSource(req.Source)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	out, err := s.uc.Remember(r.Context(), &memory.RememberInput{
		Content: req.Content,
		Tags:    req.Tags,
		Source:  source,
	})
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"memory": out.Memory,
		"sync":   out.Sync,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	out, err := s.uc.List(r.Context(), &memory.ListInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	resp := map[string]any{
		"memories": out.Memories,
	}
	if out.NextCursor != "" {
		resp["next_cursor"] = out.NextCursor
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.uc.Get(r.Context(), model.MemoryID(r.PathValue("id")))
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	out, err := s.uc.Forget(r.Context(), model.MemoryID(r.PathValue("id")))
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"sync": out.Sync,
	})
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := s.uc.Recall(r.Context(), &memory.RecallInput{
		Query: req.Query,
		Limit: req.Limit,
	})
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	status, err := s.uc.Resync(r.Context())
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// respondFailure maps error tags to HTTP status codes
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case model.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case model.IsNotFound(err):
		respondError(w, http.StatusNotFound, "memory not found")
	case model.IsTransport(err):
		logging.From(r.Context()).Error("provider transport failure", "error", err)
		respondError(w, http.StatusBadGateway, "search provider unavailable")
	default:
		logging.From(r.Context()).Error("request failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
