package models

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
)

func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(s); st {
	case ProjectPlanning, ProjectInProgress, ProjectReview, ProjectCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("invalid project status %q", s)
	}
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AssignedTo  string       `json:"assignedTo"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"createdAt"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Tags        []string     `json:"tags"`
}

type Project struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	UserID      string        `gorm:"size:36;index:idx_project_user" json:"userId,omitempty"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"size:32;not null;default:planning" json:"status"`
	Progress    int           `gorm:"not null;default:0" json:"progress"`
	Deadline    time.Time     `json:"deadline"`
	TeamMembers []string      `gorm:"serializer:json" json:"teamMembers"`
	Tasks       []Task        `gorm:"serializer:json" json:"tasks"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectPatch carries the optional fields of a project update.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Progress    *int           `json:"progress,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	TeamMembers []string       `json:"teamMembers,omitempty"`
	Tasks       []Task         `json:"tasks,omitempty"`
}

// Apply returns a copy of p with the patch fields set.
func (patch ProjectPatch) Apply(p Project) Project {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if patch.Deadline != nil {
		p.Deadline = *patch.Deadline
	}
	if patch.TeamMembers != nil {
		p.TeamMembers = append([]string(nil), patch.TeamMembers...)
	}
	if patch.Tasks != nil {
		p.Tasks = append([]Task(nil), patch.Tasks...)
	}
	return p
}
