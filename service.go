package tasker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultURLExpiration is the lifetime of a pre-signed attachment upload URL.
const DefaultURLExpiration = 300 * time.Second

// TaskRepo defines the interface for task persistence.
// Every operation is scoped to an owning user; implementations must never
// return or touch a task belonging to a different user.
//
// All methods accept a context for cancellation and timeout control.
type TaskRepo interface {
	// ListByOwner returns every task owned by userID, oldest first.
	// Returns an empty slice (not nil) when the user owns no tasks.
	ListByOwner(ctx context.Context, userID string) ([]Task, error)

	// Get retrieves a single task.
	//
	// Returns:
	//   - Task: The stored task if found
	//   - error: ErrNotFound if no such task exists for the owner, or other storage errors
	Get(ctx context.Context, taskID, userID string) (Task, error)

	// Put stores a new task and returns it as persisted.
	Put(ctx context.Context, task Task) (Task, error)

	// Update applies the non-nil fields of upd to an existing task.
	// Returns ErrNotFound if the task does not exist for the owner.
	Update(ctx context.Context, taskID, userID string, upd TaskUpdate) error

	// Delete removes a task. Deleting a missing task is not an error.
	Delete(ctx context.Context, taskID, userID string) error
}

// URLSigner mints time-limited upload URLs against an object store.
type URLSigner interface {
	// PresignPut returns a URL that allows a single PUT of the object at key
	// until expires has elapsed. An empty URL with a nil error means the
	// signer produced nothing.
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)

	// PublicURL returns the unsigned URL the object at key is served from.
	PublicURL(key string) string
}

// ServiceConfig holds configuration options for TaskService.
type ServiceConfig struct {
	URLExpiration time.Duration // Lifetime of upload URLs (default: 300s)
	Logger        *slog.Logger
}

// TaskService is the business logic façade. Each operation delegates to the
// repository or the signer with minimal validation.
type TaskService struct {
	repo          TaskRepo
	signer        URLSigner
	urlExpiration time.Duration
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

func NewTaskService(repo TaskRepo, signer URLSigner, cfg ServiceConfig) (*TaskService, error) {
	if repo == nil {
		return nil, errors.New("new task service: repo is required")
	}
	if signer == nil {
		return nil, errors.New("new task service: signer is required")
	}
	expiration := cfg.URLExpiration
	if expiration <= 0 {
		expiration = DefaultURLExpiration
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		repo:          repo,
		signer:        signer,
		urlExpiration: expiration,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
	}, nil
}

// GetAllTasks returns all tasks owned by userID.
func (s *TaskService) GetAllTasks(ctx context.Context, userID string) ([]Task, error) {
	if userID == "" {
		return nil, fmt.Errorf("get all tasks: %w: user id cannot be empty", ErrInvalidInput)
	}

	tasks, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, storageError("get all tasks", err)
	}

	return tasks, nil
}

// CreateTask generates a new task id, merges it with userID and the payload,
// and persists the result.
func (s *TaskService) CreateTask(ctx context.Context, userID string, req CreateTaskRequest) (Task, error) {
	if userID == "" {
		return Task{}, fmt.Errorf("create task: %w: user id cannot be empty", ErrInvalidInput)
	}

	task := Task{
		TaskID:      s.newID(),
		UserID:      userID,
		CreatedAt:   s.now().UTC(),
		Description: req.Description,
		DueDate:     req.DueDate,
	}

	created, err := s.repo.Put(ctx, task)
	if err != nil {
		return Task{}, storageError("create task "+task.TaskID, err)
	}

	s.logger.Debug("task created", "task_id", created.TaskID, "user_id", userID)
	return created, nil
}

// UpdateTask persists a partial update. The payload shape is not checked
// beyond what the repository enforces.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID string, req UpdateTaskRequest) error {
	if taskID == "" || userID == "" {
		return fmt.Errorf("update task: %w: task id and user id are required", ErrInvalidInput)
	}

	upd := TaskUpdate{
		Description: req.Description,
		DueDate:     req.DueDate,
		Done:        req.Done,
	}

	if err := s.repo.Update(ctx, taskID, userID, upd); err != nil {
		return storageError("update task "+taskID, err)
	}

	return nil
}

// TaskExists reports whether the task is present for the owner.
func (s *TaskService) TaskExists(ctx context.Context, taskID, userID string) (bool, error) {
	if taskID == "" || userID == "" {
		return false, nil
	}

	_, err := s.repo.Get(ctx, taskID, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("task exists "+taskID, err)
	}

	return true, nil
}

// DeleteTask removes the task. What happens for a missing task is up to the repository.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID string) error {
	if taskID == "" || userID == "" {
		return fmt.Errorf("delete task: %w: task id and user id are required", ErrInvalidInput)
	}

	if err := s.repo.Delete(ctx, taskID, userID); err != nil {
		return storageError("delete task "+taskID, err)
	}

	return nil
}

// GetUploadURL asks the signer for a pre-signed PUT URL keyed by taskID and
// records the object's public URL on the task.
//
// When the signer returns an empty URL without an error, no attachment update
// happens and the empty string is returned with a nil error. Callers must
// treat an empty URL as a failure.
func (s *TaskService) GetUploadURL(ctx context.Context, taskID, userID string) (string, error) {
	if taskID == "" || userID == "" {
		return "", fmt.Errorf("get upload url: %w: task id and user id are required", ErrInvalidInput)
	}

	signedURL, err := s.signer.PresignPut(ctx, taskID, s.urlExpiration)
	if err != nil {
		return "", fmt.Errorf("get upload url %s: %w: %w", taskID, ErrSigning, err)
	}

	if signedURL == "" {
		s.logger.Warn("signer returned no upload url", "task_id", taskID)
		return "", nil
	}

	attachmentURL := s.signer.PublicURL(taskID)
	if err := s.repo.Update(ctx, taskID, userID, TaskUpdate{AttachmentURL: &attachmentURL}); err != nil {
		return "", storageError("get upload url "+taskID, err)
	}

	return signedURL, nil
}

// storageError wraps a repository failure. Not-found passes through unchanged
// so callers can still tell it apart from an opaque storage failure.
func storageError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
