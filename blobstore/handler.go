package blobstore

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sagarc03/tasker"
	taskerhttp "github.com/sagarc03/tasker/http"
)

// RequestVerifier authorizes an upload request.
type RequestVerifier interface {
	VerifyRequest(r *http.Request) error
}

// Handler serves one bucket: presigned PUT uploads and public GETs.
type Handler struct {
	store    *Store
	verifier RequestVerifier
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil logger falls back to slog.Default().
func NewHandler(store *Store, verifier RequestVerifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, verifier: verifier, logger: logger}
}

// Router returns the bucket routes. Mount it under "/{bucket}".
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/*", h.handleGet)
	r.Head("/*", h.handleGet)
	r.Put("/*", h.handlePut)
	return r
}

func objectKey(r *http.Request) (string, bool) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return "", false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "." || segment == ".." || strings.HasPrefix(segment, tmpFilePrefix) {
			return "", false
		}
	}
	return key, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := objectKey(r)
	if !ok {
		taskerhttp.WriteError(w, http.StatusBadRequest, "invalid_key", "Invalid object key")
		return
	}

	f, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, tasker.ErrNotFound) {
			taskerhttp.WriteError(w, http.StatusNotFound, "not_found", "Object not found")
			return
		}
		taskerhttp.HandleError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		taskerhttp.HandleError(w, err)
		return
	}

	http.ServeContent(w, r, key, info.ModTime(), f)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	if h.verifier != nil {
		if err := h.verifier.VerifyRequest(r); err != nil {
			h.logger.Warn("upload rejected", "path", r.URL.Path, "error", err)
			taskerhttp.WriteError(w, http.StatusForbidden, "forbidden", "Invalid or expired upload URL")
			return
		}
	}

	key, ok := objectKey(r)
	if !ok {
		taskerhttp.WriteError(w, http.StatusBadRequest, "invalid_key", "Invalid object key")
		return
	}

	result, err := h.store.Write(r.Context(), key, r.Body)
	if err != nil {
		taskerhttp.HandleError(w, err)
		return
	}

	h.logger.Info("object stored", "key", key, "bytes", result.BytesWritten)
	w.Header().Set("ETag", `"`+result.ETag+`"`)
	w.WriteHeader(http.StatusOK)
}
