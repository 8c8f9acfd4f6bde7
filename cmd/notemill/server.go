package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/notemill/notemill/kit"
	"github.com/notemill/notemill/notedit"
	"github.com/notemill/notemill/notestore"
	"github.com/notemill/notemill/pipeline"
)

type server struct {
	runner *pipeline.Runner
	auth   AuthConfig
	log    *slog.Logger
}

func (s *server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(kitContext)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if s.auth.User != "" {
			r.Use(s.basicAuth)
		}
		r.Post("/batch", s.handleBatch)
		r.Post("/notes", s.handleCreate)
		r.Get("/notes/{id}", s.handleGet)
		r.Patch("/notes/{id}", s.handleUpdate)
		r.Delete("/notes/{id}", s.handleDelete)
		r.Get("/notes/{id}/markdown", s.handleMarkdown)
		r.Get("/search", s.handleSearch)
		r.Get("/notebooks", s.handleNotebooks)
		r.Get("/tags", s.handleTags)
	})
	return r
}

// kitContext carries the chi request ID into the kit context so log lines
// and MCP calls correlate.
func kitContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kit.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = kit.WithTransport(ctx, "http")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.auth.User ||
			bcrypt.CompareHashAndPassword([]byte(s.auth.PasswordBcrypt), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="notemill"`)
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	item, err := req.Item(pipeline.KindCreate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.RunOne(r.Context(), item)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.Meta)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	req.NoteID = chi.URLParam(r, "id")
	item, err := req.Item(pipeline.KindUpdate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.RunOne(r.Context(), item)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Meta)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	op := pipeline.Operation{
		Kind:         pipeline.KindGet,
		NoteID:       chi.URLParam(r, "id"),
		Format:       r.URL.Query().Get("format"),
		ResourceData: r.URL.Query().Get("resource_data") == "true",
	}
	res, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: op})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Note)
}

func (s *server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	op := pipeline.Operation{
		Kind:   pipeline.KindGet,
		NoteID: chi.URLParam(r, "id"),
		Format: pipeline.FormatMarkdown,
	}
	res, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: op})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(res.Note.Content))
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	op := pipeline.Operation{Kind: pipeline.KindDelete, NoteID: chi.URLParam(r, "id")}
	if _, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: op}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	op := pipeline.Operation{
		Kind:       pipeline.KindSearch,
		Query:      r.URL.Query().Get("q"),
		NotebookID: r.URL.Query().Get("notebook"),
		Limit:      limit,
	}
	res, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: op})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Notes)
}

func (s *server) handleNotebooks(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: pipeline.Operation{Kind: pipeline.KindListNotebooks}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Notebooks)
}

func (s *server) handleTags(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.RunOne(r.Context(), pipeline.Item{Op: pipeline.Operation{Kind: pipeline.KindListTags}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Tags)
}

type batchRequest struct {
	ContinueOnError bool               `json:"continue_on_error"`
	Items           []pipeline.Request `json:"items"`
}

func (s *server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	items := make([]pipeline.Item, 0, len(req.Items))
	for _, pr := range req.Items {
		item, err := pr.Item(pr.Kind)
		if err != nil {
			s.writeError(w, err)
			return
		}
		items = append(items, item)
	}
	results, err := s.runner.Run(r.Context(), items, pipeline.RunOptions{ContinueOnError: req.ContinueOnError})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeError maps error kinds to HTTP statuses: user mistakes are 400,
// missing notes 404, a note held open elsewhere 409, other remote failures
// 502.
func (s *server) writeError(w http.ResponseWriter, err error) {
	var (
		inputErr  *pipeline.InputError
		patErr    *notedit.PatternError
		remoteErr *notestore.RemoteError
	)
	switch {
	case errors.Is(err, pipeline.ErrValidation), errors.As(err, &inputErr), errors.As(err, &patErr):
		writeErrorCode(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, notestore.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &remoteErr):
		status := http.StatusBadGateway
		if remoteErr.Code == notestore.CodeNoteInEdit {
			status = http.StatusConflict
		}
		writeErrorCode(w, status, remoteErr.Code, err.Error())
	default:
		s.log.Error("internal error", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
