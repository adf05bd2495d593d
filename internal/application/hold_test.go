package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledTaskZeroValueNeverFires(t *testing.T) {
	t.Parallel()

	var task scheduledTask
	assert.False(t, task.Armed())
	assert.Nil(t, task.C())
	task.Cancel()
	task.Cancel()
}

func TestScheduledTaskArmFires(t *testing.T) {
	t.Parallel()

	var task scheduledTask
	task.Arm(10 * time.Millisecond)
	assert.True(t, task.Armed())
	assert.Equal(t, 10*time.Millisecond, task.after)

	select {
	case <-task.C():
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestScheduledTaskRearmReplacesDeadline(t *testing.T) {
	t.Parallel()

	var task scheduledTask
	task.Arm(time.Hour)
	first := task.C()
	task.Arm(5 * time.Millisecond)

	assert.NotEqual(t, first, task.C())
	assert.Equal(t, 5*time.Millisecond, task.after)

	select {
	case <-task.C():
	case <-time.After(time.Second):
		t.Fatal("rearmed task did not fire")
	}
}

func TestScheduledTaskCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	var task scheduledTask
	task.Arm(5 * time.Millisecond)
	task.Cancel()
	task.Cancel()

	assert.False(t, task.Armed())
	select {
	case <-task.C():
		t.Fatal("cancelled task fired")
	case <-time.After(30 * time.Millisecond):
	}
}
