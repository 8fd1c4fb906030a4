// Package web binds the chest to HTTP: a small JSON API for the page script
// plus the static files of the page itself.
package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/lovechest/internal/chest"
	"github.com/comigor/lovechest/internal/logger"
	"github.com/comigor/lovechest/internal/reveal"
)

// Chest is the part of *chest.Chest the handler drives.
type Chest interface {
	Load(ctx context.Context) (chest.Outcome, error)
	Open(ctx context.Context) (chest.Outcome, error)
	Reset(ctx context.Context) (chest.Outcome, error)
}

// Handler serves the chest API and static assets.
type Handler struct {
	chest         Chest
	assets        fs.FS
	revealTimeout time.Duration
	log           *slog.Logger
	mux           *http.ServeMux
}

// New builds the handler. assets may be nil, in which case only the API is
// served and every reveal falls back to the static path.
func New(c Chest, assets fs.FS, revealTimeout time.Duration) *Handler {
	h := &Handler{
		chest:         c,
		assets:        assets,
		revealTimeout: revealTimeout,
		log:           logger.For("web"),
		mux:           http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /api/chest", h.handleStatus)
	h.mux.HandleFunc("POST /api/chest/open", h.handleOpen)
	h.mux.HandleFunc("DELETE /api/chest", h.handleReset)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	if assets != nil {
		h.mux.Handle("GET /", http.FileServer(http.FS(assets)))
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", id)
	h.log.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
	h.mux.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	out, err := h.chest.Load(r.Context())
	if err != nil {
		h.fail(w, r, "load", err)
		return
	}
	h.writeView(w, r, newView(out))
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	out, err := h.chest.Open(r.Context())
	if err != nil {
		h.fail(w, r, "open", err)
		return
	}
	v := newView(out)
	// Only a fresh unlock animates; reopening or reloading shows the message directly.
	if out.Fresh {
		if err := reveal.Chest(h.assets, h.revealTimeout).Run(r.Context()); err != nil {
			v.addNotices(err)
		} else {
			v.Animate = true
		}
	}
	h.log.Info("chest opened", "id", requestID(r.Context()), "fresh", out.Fresh, "persisted", out.Persisted, "animate", v.Animate)
	h.writeView(w, r, v)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	out, err := h.chest.Reset(r.Context())
	if err != nil {
		h.fail(w, r, "reset", err)
		return
	}
	h.writeView(w, r, newView(out))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error("chest operation failed", "id", requestID(r.Context()), "op", op, "error", err)
	v := View{}
	v.addNotices(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, v View) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("write response failed", "id", requestID(r.Context()), "error", err)
	}
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
