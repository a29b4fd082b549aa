package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisQueue(t *testing.T) Queue {
	t.Helper()

	mr := miniredis.RunT(t)

	q, err := NewRedisQueue(&Config{
		RedisAddr:   mr.Addr(),
		Concurrency: 2,
		RetryLimit:  2,
		RetryDelay:  time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	return q
}

func TestRedisQueueEnqueue(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	payload := DocumentProcessPayload{
		DocumentID: "doc-1",
		FilePath:   "2024/01/01/doc-1.pdf",
		FileName:   "Finance Bill.pdf",
	}

	taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-1", payload)
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	task, err := q.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, TaskDocumentProcess, task.Type)
	assert.Equal(t, "doc-1", task.DocumentID)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, 2, task.MaxRetries)

	var got DocumentProcessPayload
	require.NoError(t, UnmarshalPayload(task.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestRedisQueueGetTaskMissing(t *testing.T) {
	q := setupRedisQueue(t)

	_, err := q.GetTask(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRedisQueueEnqueueIn(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	taskID, err := q.EnqueueIn(ctx, TaskDocumentReprocess, "doc-1", nil, time.Minute)
	require.NoError(t, err)

	task, err := q.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, task.Status)
}

func TestRedisQueueTasksByDocument(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	id1, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-1", nil)
	require.NoError(t, err)
	id2, err := q.Enqueue(ctx, TaskDocumentReprocess, "doc-1", nil)
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, TaskDocumentProcess, "doc-2", nil)
	require.NoError(t, err)

	tasks, err := q.GetTasksByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	ids := map[string]bool{tasks[0].ID: true, tasks[1].ID: true}
	assert.True(t, ids[id1])
	assert.True(t, ids[id2])

	tasks, err = q.GetTasksByDocument(ctx, "doc-without-tasks")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRedisQueueUpdateTaskStatus(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-1", nil)
	require.NoError(t, err)

	t.Run("processing sets started time", func(t *testing.T) {
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusProcessing, nil, ""))
		task, err := q.GetTask(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, task.Status)
		assert.NotNil(t, task.StartedAt)
	})

	t.Run("completed keeps the attached result", func(t *testing.T) {
		result := DocumentProcessResult{DocumentID: "doc-1", DocType: "bill", Sector: "Finance"}
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusCompleted, result, ""))

		task, err := q.GetTask(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, task.Status)
		assert.NotNil(t, task.CompletedAt)

		var got DocumentProcessResult
		require.NoError(t, UnmarshalPayload(task.Result, &got))
		assert.Equal(t, "bill", got.DocType)
	})

	t.Run("failed records the error", func(t *testing.T) {
		id2, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-2", nil)
		require.NoError(t, err)
		require.NoError(t, q.UpdateTaskStatus(ctx, id2, StatusFailed, nil, "no text layer"))

		task, err := q.GetTask(ctx, id2)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, task.Status)
		assert.Equal(t, "no text layer", task.Error)
	})

	t.Run("missing task", func(t *testing.T) {
		err := q.UpdateTaskStatus(ctx, "absent", StatusCompleted, nil, "")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestRedisQueueWaitForTask(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	t.Run("already terminal", func(t *testing.T) {
		taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-1", nil)
		require.NoError(t, err)
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusCompleted, nil, ""))

		task, err := q.WaitForTask(ctx, taskID, time.Second)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, task.Status)
	})

	t.Run("completes while waiting", func(t *testing.T) {
		taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-2", nil)
		require.NoError(t, err)

		go func() {
			time.Sleep(200 * time.Millisecond)
			q.UpdateTaskStatus(context.Background(), taskID, StatusCompleted, nil, "")
			q.NotifyTaskUpdate(context.Background(), taskID)
		}()

		task, err := q.WaitForTask(ctx, taskID, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, task.Status)
	})

	t.Run("timeout", func(t *testing.T) {
		taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-3", nil)
		require.NoError(t, err)

		_, err = q.WaitForTask(ctx, taskID, 100*time.Millisecond)
		assert.ErrorIs(t, err, ErrTaskTimeout)
	})
}

func TestRedisQueueDeleteTask(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	taskID, err := q.Enqueue(ctx, TaskDocumentProcess, "doc-1", nil)
	require.NoError(t, err)

	require.NoError(t, q.DeleteTask(ctx, taskID))

	_, err = q.GetTask(ctx, taskID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tasks, err := q.GetTasksByDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
