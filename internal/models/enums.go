package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnum is wrapped by every Parse* function on unknown input.
var ErrInvalidEnum = errors.New("invalid enum value")

type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleWorkspaceAdmin Role = "WorkspaceAdmin"
	RoleMember         Role = "Member"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusOnHold    ProjectStatus = "OnHold"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
)

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusDone       TaskStatus = "Done"
)

var (
	roles           = []Role{RoleAdmin, RoleWorkspaceAdmin, RoleMember}
	projectStatuses = []ProjectStatus{ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled}
	priorities      = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	taskStatuses    = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone}
)

// parseEnum accepts a canonical name or its lower-case form.
func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	for _, v := range values {
		if string(v) == s || strings.ToLower(string(v)) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidEnum, kind, s)
}

func ParseRole(s string) (Role, error) { return parseEnum("role", s, roles) }

func ParseProjectStatus(s string) (ProjectStatus, error) {
	return parseEnum("project status", s, projectStatuses)
}

func ParsePriority(s string) (Priority, error) { return parseEnum("priority", s, priorities) }

func ParseTaskStatus(s string) (TaskStatus, error) {
	return parseEnum("task status", s, taskStatuses)
}

func (r Role) String() string          { return string(r) }
func (s ProjectStatus) String() string { return string(s) }
func (p Priority) String() string      { return string(p) }
func (s TaskStatus) String() string    { return string(s) }

// TaskStatuses lists the Kanban columns in board order.
func TaskStatuses() []TaskStatus {
	return append([]TaskStatus(nil), taskStatuses...)
}

// ProjectStatuses lists every project status.
func ProjectStatuses() []ProjectStatus {
	return append([]ProjectStatus(nil), projectStatuses...)
}

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}
