// Package tasks builds the in-memory task model from a stored task
// descriptor: metadata (authors, weight, accessibility, order) plus the
// ordered set of problems, constructed once per load and immutable
// afterwards.
package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eskildht/inginious/internal/i18n"
	"github.com/eskildht/inginious/internal/problems"
)

// Task aggregates a course handle, metadata and an ordered problem set.
type Task struct {
	id          string
	courseID    string
	name        string
	context     string
	authors     []string
	weight      float64
	order       int
	accessible  AccessibleTime
	environment string
	problems    []problems.Problem
	data        problems.Content
}

// New parses a task descriptor. Any contract violation in the descriptor
// or in one of its problems aborts the load: a malformed task must never
// be served to students.
func New(courseID, taskID string, content problems.Content, tr *i18n.Registry) (*Task, error) {
	if !problems.ValidIdentifier(taskID) {
		return nil, fmt.Errorf("task with invalid id: %s/%s", courseID, taskID)
	}

	t := &Task{
		id:       taskID,
		courseID: courseID,
		weight:   1.0,
		order:    -1,
		data:     content.Clone(),
	}

	if name, ok := content["name"].(string); ok && name != "" {
		t.name = name
	} else {
		t.name = "Task " + taskID
	}
	t.context, _ = content["context"].(string)
	t.environment, _ = content["environment"].(string)

	switch author := content["author"].(type) {
	case nil:
	case string:
		t.authors = []string{author}
	case []any:
		for _, entry := range author {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("task %s/%s has an invalid author", courseID, taskID)
			}
			t.authors = append(t.authors, s)
		}
	case []string:
		t.authors = author
	default:
		return nil, fmt.Errorf("task %s/%s has an invalid author", courseID, taskID)
	}

	if raw, present := content["weight"]; present {
		weight, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("task %s/%s has an invalid weight", courseID, taskID)
		}
		t.weight = weight
	}
	if raw, present := content["order"]; present {
		order, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("task %s/%s has an invalid order", courseID, taskID)
		}
		t.order = int(order)
	}

	accessible, err := ParseAccessibleTime(content["accessible"])
	if err != nil {
		return nil, fmt.Errorf("task %s/%s: %w", courseID, taskID, err)
	}
	t.accessible = accessible

	if err := t.buildProblems(content, tr); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Task) buildProblems(content problems.Content, tr *i18n.Registry) error {
	raw, present := content["problems"]
	if !present {
		return nil
	}
	descriptors, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("task %s/%s problems are not a mapping", t.courseID, t.id)
	}

	ids := make([]string, 0, len(descriptors))
	for id := range descriptors {
		ids = append(ids, id)
	}
	// Problems are ordered by their "order" key, falling back to id.
	sort.Slice(ids, func(i, j int) bool {
		oi, oj := problemOrder(descriptors[ids[i]]), problemOrder(descriptors[ids[j]])
		if oi != oj {
			return oi < oj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		descriptor, ok := descriptors[id].(map[string]any)
		if !ok {
			return fmt.Errorf("problem %q of task %s/%s is not a mapping", id, t.courseID, t.id)
		}
		problem, err := problems.New(t.id, id, problems.Content(descriptor), tr)
		if err != nil {
			return fmt.Errorf("task %s/%s: %w", t.courseID, t.id, err)
		}
		if isCodeKind(problem.Kind()) && t.environment == "" {
			return fmt.Errorf("task %s/%s has no environment but problem %q has type %s", t.courseID, t.id, id, problem.Kind())
		}
		t.problems = append(t.problems, problem)
	}
	return nil
}

func problemOrder(raw any) int {
	descriptor, ok := raw.(map[string]any)
	if !ok {
		return 0
	}
	order, _ := toFloat(descriptor["order"])
	return int(order)
}

func isCodeKind(kind problems.Kind) bool {
	return strings.HasPrefix(string(kind), "code")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func (t *Task) ID() string                     { return t.id }
func (t *Task) CourseID() string               { return t.courseID }
func (t *Task) Name() string                   { return t.name }
func (t *Task) Context() string                { return t.context }
func (t *Task) Authors() []string              { return t.authors }
func (t *Task) GradingWeight() float64         { return t.weight }
func (t *Task) Order() int                     { return t.order }
func (t *Task) Accessible() AccessibleTime     { return t.accessible }
func (t *Task) Environment() string            { return t.environment }
func (t *Task) Problems() []problems.Problem   { return t.problems }
func (t *Task) OriginalData() problems.Content { return t.data.Clone() }

// Deadline renders the task's deadline for display.
func (t *Task) Deadline() string { return t.accessible.Deadline() }

// IsVisibleByStudents reports whether non-staff students may see this
// task, given whether the owning course is open to them.
func (t *Task) IsVisibleByStudents(courseOpen bool) bool {
	return courseOpen && t.accessible.AfterStart()
}

// CanSubmit reports whether the task currently accepts submissions.
func (t *Task) CanSubmit() bool { return t.accessible.IsOpen() }

// InputIsConsistent reports whether in carries a well-formed value for
// every problem of the task.
func (t *Task) InputIsConsistent(in problems.Input, defaultAllowedExts []string, defaultMaxSize int64) bool {
	for _, problem := range t.problems {
		if !problem.InputIsConsistent(in, defaultAllowedExts, defaultMaxSize) {
			return false
		}
	}
	return true
}

// boxed is satisfied by the code problem family.
type boxed interface {
	Boxes() []problems.Box
}

// AdaptInput normalizes a raw request payload before validation:
// multi-select fields become lists (missing ones become empty lists) and
// missing file box fields become empty payloads. The input map is not
// mutated.
func (t *Task) AdaptInput(in problems.Input) problems.Input {
	out := make(problems.Input, len(in))
	for k, v := range in {
		out[k] = v
	}
	for _, problem := range t.problems {
		switch p := problem.(type) {
		case *problems.MultipleChoiceProblem:
			if !p.AllowsMultiple() {
				continue
			}
			value, present := out[p.ID()]
			if !present {
				out[p.ID()] = []any{}
				continue
			}
			switch value.(type) {
			case []any, []string, []int:
			default:
				out[p.ID()] = []any{value}
			}
		case boxed:
			for _, box := range p.Boxes() {
				if box.Kind() != problems.BoxFile {
					continue
				}
				if _, present := out[box.CompleteID()]; !present {
					out[box.CompleteID()] = map[string]any{}
				}
			}
		}
	}
	return out
}
