// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package task provides an in-memory registry for long-running batch jobs.

Batch resolution can take minutes, so submissions return immediately with a
task ID and clients poll for status and results. State lives in process
memory: tasks do not survive a restart, which is acceptable because a
restart also kills the work they describe.
*/
package task

import (
	"sort"
	"sync"
	"time"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/pkg/uuidv7"
)

// Task lifecycle states.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task is one tracked batch job.
type Task struct {
	TaskID    string      `json:"task_id"`
	Status    string      `json:"status"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	Progress  *Progress   `json:"progress_details,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	// CompletedAt is set when the task reaches a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Progress mirrors the orchestrator's per-row progress reports.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Label   string `json:"label"`
}

// Registry stores tasks keyed by ID.
//
// # Concurrency
//
// All methods are safe for concurrent use; batch workers update progress
// while HTTP handlers read it.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Create registers a new pending task and returns its ID.
func (registry *Registry) Create() string {
	taskID := uuidv7.New()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.tasks[taskID] = &Task{
		TaskID:    taskID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	return taskID
}

// SetRunning marks a task as in progress.
func (registry *Registry) SetRunning(taskID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if t, ok := registry.tasks[taskID]; ok {
		t.Status = StatusRunning
	}
}

// SetProgress records the latest progress report.
func (registry *Registry) SetProgress(taskID string, current, total int, label string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if t, ok := registry.tasks[taskID]; ok {
		t.Progress = &Progress{Current: current, Total: total, Label: label}
	}
}

// Complete stores the result and marks the task finished.
func (registry *Registry) Complete(taskID string, result interface{}) {
	registry.finish(taskID, StatusCompleted, result, "")
}

// Fail stores the error message and marks the task failed.
func (registry *Registry) Fail(taskID string, errorMessage string) {
	registry.finish(taskID, StatusFailed, nil, errorMessage)
}

func (registry *Registry) finish(taskID, status string, result interface{}, errorMessage string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if t, ok := registry.tasks[taskID]; ok {
		t.Status = status
		t.Result = result
		t.Error = errorMessage
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
}

// Get returns a copy of one task.
func (registry *Registry) Get(taskID string) (Task, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if t, ok := registry.tasks[taskID]; ok {
		return *t, nil
	}
	return Task{}, apperr.NotFound("Task")
}

// List returns copies of all tasks, newest first.
func (registry *Registry) List() []Task {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	result := make([]Task, 0, len(registry.tasks))
	for _, t := range registry.tasks {
		result = append(result, *t)
	}

	// Newest first; CreatedAt from UUIDv7 creation order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Delete removes a task.
func (registry *Registry) Delete(taskID string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, ok := registry.tasks[taskID]; !ok {
		return apperr.NotFound("Task")
	}
	delete(registry.tasks, taskID)
	return nil
}
