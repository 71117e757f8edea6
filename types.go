package tasker

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	TaskID        string    `json:"taskId"`
	UserID        string    `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
	Description   string    `json:"description"`
	DueDate       string    `json:"dueDate,omitempty"`
	Done          bool      `json:"done"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
}

// CreateTaskRequest carries the caller supplied fields of a new task.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required,max=1024"`
	DueDate     string `json:"dueDate" validate:"max=64"`
}

// UpdateTaskRequest carries a partial update. Nil fields are left untouched.
type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitnil,min=1,max=1024"`
	DueDate     *string `json:"dueDate" validate:"omitnil,max=64"`
	Done        *bool   `json:"done"`
}

// TaskUpdate is the set of mutable columns handed to a TaskRepo.
// Ownership and identifiers are not part of it and can never be rewritten.
type TaskUpdate struct {
	Description   *string
	DueDate       *string
	Done          *bool
	AttachmentURL *string
}

// IsEmpty reports whether the update touches no field.
func (u TaskUpdate) IsEmpty() bool {
	return u.Description == nil && u.DueDate == nil && u.Done == nil && u.AttachmentURL == nil
}

// Tables holds configurable table names for task storage.
type Tables struct {
	Tasks string `mapstructure:"tasks"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Tasks == "" {
		return errors.New("validate tables: tasks table name cannot be empty")
	}

	if !IsValidTableName(t.Tasks) {
		return fmt.Errorf("validate tables: invalid tasks table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Tasks)
	}

	return nil
}
