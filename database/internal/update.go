// Package internal holds helpers shared by the SQL task repositories.
package internal

import (
	"strings"

	"github.com/sagarc03/tasker"
)

// Assignment is one column = value pair of an UPDATE statement.
type Assignment struct {
	Column string
	Value  any
}

// Assignments expands the non-nil fields of upd in a stable column order.
func Assignments(upd tasker.TaskUpdate) []Assignment {
	var out []Assignment
	if upd.Description != nil {
		out = append(out, Assignment{Column: "description", Value: *upd.Description})
	}
	if upd.DueDate != nil {
		out = append(out, Assignment{Column: "due_date", Value: *upd.DueDate})
	}
	if upd.Done != nil {
		out = append(out, Assignment{Column: "done", Value: *upd.Done})
	}
	if upd.AttachmentURL != nil {
		out = append(out, Assignment{Column: "attachment_url", Value: *upd.AttachmentURL})
	}
	return out
}

// SetClause renders assignments as "a = ?, b = ?" using placeholder(n) for the
// n-th (1-based) bind parameter and returns the matching argument list.
func SetClause(assignments []Assignment, placeholder func(n int) string) (string, []any) {
	parts := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))
	for i, a := range assignments {
		parts = append(parts, a.Column+" = "+placeholder(i+1))
		args = append(args, a.Value)
	}
	return strings.Join(parts, ", "), args
}
