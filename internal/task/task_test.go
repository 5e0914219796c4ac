// Copyright (c) 2026 ScholarLink. All rights reserved.

package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/task"
)

func TestRegistry_Lifecycle(t *testing.T) {
	registry := task.NewRegistry()

	taskID := registry.Create()
	require.NotEmpty(t, taskID)

	created, err := registry.Get(taskID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Nil(t, created.CompletedAt)

	registry.SetRunning(taskID)
	registry.SetProgress(taskID, 3, 10, "Mounia Abik")

	running, err := registry.Get(taskID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusRunning, running.Status)
	require.NotNil(t, running.Progress)
	assert.Equal(t, 3, running.Progress.Current)
	assert.Equal(t, 10, running.Progress.Total)

	registry.Complete(taskID, map[string]int{"rows": 10})

	completed, err := registry.Get(taskID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.NotNil(t, completed.Result)
}

func TestRegistry_Fail(t *testing.T) {
	registry := task.NewRegistry()

	taskID := registry.Create()
	registry.Fail(taskID, "source table unreadable")

	failed, err := registry.Get(taskID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusFailed, failed.Status)
	assert.Equal(t, "source table unreadable", failed.Error)
	assert.NotNil(t, failed.CompletedAt)
}

func TestRegistry_GetMissing(t *testing.T) {
	registry := task.NewRegistry()

	_, err := registry.Get("no-such-task")
	assert.Error(t, err)
}

func TestRegistry_Delete(t *testing.T) {
	registry := task.NewRegistry()

	taskID := registry.Create()
	require.NoError(t, registry.Delete(taskID))
	assert.Error(t, registry.Delete(taskID))

	_, err := registry.Get(taskID)
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	registry := task.NewRegistry()

	first := registry.Create()
	time.Sleep(time.Millisecond)
	second := registry.Create()

	tasks := registry.List()
	require.Len(t, tasks, 2)

	// Newest first.
	assert.Equal(t, second, tasks[0].TaskID)
	assert.Equal(t, first, tasks[1].TaskID)
}
