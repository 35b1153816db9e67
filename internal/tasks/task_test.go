package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskildht/inginious/internal/problems"
)

func taskContent(extra problems.Content) problems.Content {
	content := problems.Content{
		"name":        "Sorting algorithms",
		"environment": "python3",
		"problems": map[string]any{
			"q1": map[string]any{"type": "match", "answer": "42", "order": 1},
			"q2": map[string]any{
				"type":     "multiple-choice",
				"multiple": true,
				"order":    2,
				"choices": []any{
					map[string]any{"text": "a", "valid": true},
					map[string]any{"text": "b", "valid": false},
				},
			},
			"q3": map[string]any{"type": "code-file", "order": 3, "allowed_exts": []any{".py"}},
		},
	}
	for k, v := range extra {
		content[k] = v
	}
	return content
}

func TestTaskConstruction(t *testing.T) {
	task, err := New("course1", "task1", taskContent(problems.Content{
		"author": []any{"alice", "bob"},
		"weight": 2.5,
		"order":  3,
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "task1", task.ID())
	assert.Equal(t, "course1", task.CourseID())
	assert.Equal(t, "Sorting algorithms", task.Name())
	assert.Equal(t, []string{"alice", "bob"}, task.Authors())
	assert.Equal(t, 2.5, task.GradingWeight())
	assert.Equal(t, 3, task.Order())
	assert.Equal(t, "python3", task.Environment())

	ids := make([]string, 0, 3)
	for _, p := range task.Problems() {
		ids = append(ids, p.ID())
	}
	assert.Equal(t, []string{"q1", "q2", "q3"}, ids)
}

func TestTaskDefaults(t *testing.T) {
	task, err := New("course1", "task1", problems.Content{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Task task1", task.Name())
	assert.Equal(t, 1.0, task.GradingWeight())
	assert.Equal(t, -1, task.Order())
	assert.Empty(t, task.Authors())
	assert.Empty(t, task.Problems())
	assert.True(t, task.Accessible().IsAlwaysAccessible())
}

func TestTaskSingleAuthorString(t *testing.T) {
	task, err := New("course1", "task1", problems.Content{"author": "alice"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, task.Authors())
}

func TestTaskInvalidAuthor(t *testing.T) {
	_, err := New("course1", "task1", problems.Content{"author": []any{"alice", 7}}, nil)
	assert.Error(t, err)

	_, err = New("course1", "task1", problems.Content{"author": 7}, nil)
	assert.Error(t, err)
}

func TestTaskInvalidID(t *testing.T) {
	_, err := New("course1", "bad id", problems.Content{}, nil)
	assert.Error(t, err)
}

func TestTaskCodeProblemRequiresEnvironment(t *testing.T) {
	_, err := New("course1", "task1", problems.Content{
		"problems": map[string]any{
			"q1": map[string]any{"type": "code"},
		},
	}, nil)
	assert.Error(t, err)
}

func TestTaskMalformedProblemAbortsLoad(t *testing.T) {
	_, err := New("course1", "task1", taskContent(problems.Content{
		"problems": map[string]any{
			"q1": map[string]any{"type": "match"}, // no answer
		},
	}), nil)
	assert.ErrorIs(t, err, problems.ErrBadDescriptor)
}

func TestTaskInputIsConsistent(t *testing.T) {
	task, err := New("course1", "task1", taskContent(nil), nil)
	require.NoError(t, err)

	complete := problems.Input{
		"q1": "42",
		"q2": []any{0},
		"q3": map[string]any{"filename": "sol.py", "value": "print()"},
	}
	assert.True(t, task.InputIsConsistent(complete, []string{".py"}, 1024))

	missing := problems.Input{"q1": "42", "q2": []any{0}}
	assert.False(t, task.InputIsConsistent(missing, []string{".py"}, 1024))
}

func TestTaskAdaptInput(t *testing.T) {
	task, err := New("course1", "task1", taskContent(nil), nil)
	require.NoError(t, err)

	in := problems.Input{"q1": "42", "q2": "0"}
	adapted := task.AdaptInput(in)

	// Scalar multi-select value becomes a single-entry list, missing file
	// box fields become empty payloads; the original map is untouched.
	assert.Equal(t, []any{"0"}, adapted["q2"])
	assert.Equal(t, map[string]any{}, adapted["q3"])
	assert.Equal(t, "0", in["q2"])
	_, present := in["q3"]
	assert.False(t, present)

	adapted = task.AdaptInput(problems.Input{"q1": "42"})
	assert.Equal(t, []any{}, adapted["q2"])
}

func TestTaskVisibility(t *testing.T) {
	task, err := New("course1", "task1", problems.Content{"accessible": "2020-01-01/"}, nil)
	require.NoError(t, err)
	assert.True(t, task.IsVisibleByStudents(true))
	assert.False(t, task.IsVisibleByStudents(false))

	task, err = New("course1", "task1", problems.Content{"accessible": false}, nil)
	require.NoError(t, err)
	assert.False(t, task.IsVisibleByStudents(true))
	assert.False(t, task.CanSubmit())
	assert.Equal(t, "It's too late", task.Deadline())
}
