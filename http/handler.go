package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/auth"
)

const maxBodyBytes = 1 << 20

// Service is the task façade the handlers delegate to.
type Service interface {
	GetAllTasks(ctx context.Context, userID string) ([]tasker.Task, error)
	CreateTask(ctx context.Context, userID string, req tasker.CreateTaskRequest) (tasker.Task, error)
	UpdateTask(ctx context.Context, taskID, userID string, req tasker.UpdateTaskRequest) error
	TaskExists(ctx context.Context, taskID, userID string) (bool, error)
	DeleteTask(ctx context.Context, taskID, userID string) error
	GetUploadURL(ctx context.Context, taskID, userID string) (string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	Authorizer Authorizer
	CORS       CORSConfig

	// Metrics enables instrumentation; MetricsPath exposes it when non-empty.
	Metrics     *Metrics
	MetricsPath string

	// Attachments, when set, is mounted at AttachmentsPath (e.g. "/attachments").
	Attachments     http.Handler
	AttachmentsPath string

	// HealthCheck is called by /healthz; nil always reports healthy.
	HealthCheck func(ctx context.Context) error
}

// Handler provides HTTP handlers for task operations.
type Handler struct {
	config   HandlerConfig
	service  Service
	validate *validator.Validate
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:   *config,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router returns an http.Handler with all routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if h.config.Metrics != nil {
		r.Use(h.config.Metrics.Middleware)
	}

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(writeNotFound)
	r.MethodNotAllowed(writeMethodNotAllowed)

	r.Get("/healthz", h.handleHealth)

	if h.config.Metrics != nil && h.config.MetricsPath != "" {
		r.Method(http.MethodGet, h.config.MetricsPath, h.config.Metrics.Handler())
	}

	if h.config.Attachments != nil && h.config.AttachmentsPath != "" {
		r.Mount(h.config.AttachmentsPath, h.config.Attachments)
	}

	r.Route("/todos", func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.Authorizer))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)

		r.Route("/{taskId}", func(r chi.Router) {
			r.Use(h.requireTask)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
			r.Post("/attachment", h.handleAttachment)
		})
	})

	return r
}

func taskIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "taskId"))
}

// userID is set by AuthMiddleware; its absence means the route was wired
// without it.
func userID(r *http.Request) (string, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", tasker.ErrUnauthorized
	}
	return id, nil
}

func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", tasker.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", tasker.ErrInvalidInput)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", tasker.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.config.HealthCheck != nil {
		if err := h.config.HealthCheck(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			WriteError(w, http.StatusServiceUnavailable, "unavailable", "Service unavailable")
			return
		}
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	tasks, err := h.service.GetAllTasks(r.Context(), uid)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"items": tasks})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	var req tasker.CreateTaskRequest
	if err := h.decode(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), uid, req)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, map[string]any{"item": task})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	var req tasker.UpdateTaskRequest
	if err := h.decode(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.service.UpdateTask(r.Context(), taskIDParam(r), uid, req); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskIDParam(r), uid); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) handleAttachment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	uploadURL, err := h.service.GetUploadURL(r.Context(), taskIDParam(r), uid)
	if err != nil {
		HandleError(w, err)
		return
	}

	if uploadURL == "" {
		slog.Error("no upload url produced", "task_id", taskIDParam(r))
		WriteError(w, http.StatusInternalServerError, "upload_url_unavailable", "Could not create an upload URL")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"uploadUrl": uploadURL})
}
