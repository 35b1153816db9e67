package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskildht/inginious/internal/i18n"
)

func mcqContent(multiple bool, extra Content, choices ...Content) Content {
	list := make([]any, len(choices))
	for i, c := range choices {
		list[i] = map[string]any(c)
	}
	content := Content{"type": "multiple-choice", "multiple": multiple, "choices": list}
	for k, v := range extra {
		content[k] = v
	}
	return content
}

func choice(valid bool, extra ...Content) Content {
	c := Content{"text": "choice", "valid": valid}
	if len(extra) > 0 {
		for k, v := range extra[0] {
			c[k] = v
		}
	}
	return c
}

func TestMultipleChoiceRequiresChoices(t *testing.T) {
	_, err := New("t", "q", Content{"type": "multiple-choice"}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)

	_, err = New("t", "q", Content{"type": "multiple-choice", "choices": "nope"}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestMultipleChoiceRequiresValidChoice(t *testing.T) {
	_, err := New("t", "q", mcqContent(false, nil, choice(false), choice(false)), nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestMultipleChoiceRequiresChoiceText(t *testing.T) {
	_, err := New("t", "q", mcqContent(false, nil, Content{"valid": true}), nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestMultipleChoiceOrdersValidChoicesFirst(t *testing.T) {
	p, err := New("t", "q", mcqContent(true, nil, choice(false), choice(true), choice(true)), nil)
	require.NoError(t, err)
	mcq := p.(*MultipleChoiceProblem)

	indices := make([]int, 0, 3)
	for _, c := range mcq.Choices() {
		indices = append(indices, c.Index)
	}
	// Indices keep declaration order; valid ones come first.
	assert.Equal(t, []int{1, 2, 0}, indices)
	assert.True(t, mcq.ChoiceWithIndex(1).Valid)
	assert.False(t, mcq.ChoiceWithIndex(0).Valid)
	assert.Nil(t, mcq.ChoiceWithIndex(7))
}

func TestMultipleChoiceLimitValidation(t *testing.T) {
	// A multi-select limit below the number of valid choices would make it
	// impossible to select all correct answers.
	_, err := New("t", "q", mcqContent(true, Content{"limit": 1}, choice(true), choice(true), choice(false)), nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)

	// The same limit on single-select is fine.
	p, err := New("t", "q", mcqContent(false, Content{"limit": 1}, choice(true), choice(true), choice(false)), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p.(*MultipleChoiceProblem).Limit())

	// Zero means unbounded on both paths.
	_, err = New("t", "q", mcqContent(true, Content{"limit": 0}, choice(true), choice(true), choice(false)), nil)
	assert.NoError(t, err)

	// Negative or non-numeric limits fail.
	_, err = New("t", "q", mcqContent(false, Content{"limit": -1}, choice(true)), nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
	_, err = New("t", "q", mcqContent(false, Content{"limit": "many"}, choice(true)), nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestMultipleChoiceSingleSelectGrading(t *testing.T) {
	p, err := New("t", "q", mcqContent(false, nil,
		choice(true),
		choice(false, Content{"feedback": "not quite"}),
	), nil)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": "0"}, "")
	assert.Equal(t, VerdictCorrect, result.Verdict)
	assert.Zero(t, result.InvalidCount)
	assert.Nil(t, result.Messages)

	result = p.CheckAnswer(Input{"q": "1"}, "")
	assert.Equal(t, VerdictWrong, result.Verdict)
	assert.Equal(t, 1, result.InvalidCount)
	assert.Equal(t, []string{"_wrong_answer", "not quite"}, result.Messages)
}

func TestMultipleChoiceMultiSelectGrading(t *testing.T) {
	p, err := New("t", "q", mcqContent(true, Content{"limit": 0},
		choice(true), choice(true), choice(false),
	), nil)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": []any{0, 1}}, "")
	assert.Equal(t, VerdictCorrect, result.Verdict)
	assert.Zero(t, result.InvalidCount)

	result = p.CheckAnswer(Input{"q": []any{0}}, "")
	assert.Equal(t, VerdictWrong, result.Verdict)
	assert.Equal(t, 1, result.InvalidCount)

	result = p.CheckAnswer(Input{"q": []any{0, 1, 2}}, "")
	assert.Equal(t, VerdictWrong, result.Verdict)
	assert.Equal(t, 1, result.InvalidCount)
}

func TestMultipleChoiceMultiSelectToleratesStringIndices(t *testing.T) {
	p, err := New("t", "q", mcqContent(true, nil, choice(true), choice(true), choice(false)), nil)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": []any{"0", 1}}, "")
	assert.Equal(t, VerdictCorrect, result.Verdict)
	assert.Zero(t, result.InvalidCount)

	result = p.CheckAnswer(Input{"q": []string{"0", "2"}}, "")
	assert.Equal(t, VerdictWrong, result.Verdict)
	assert.Equal(t, 2, result.InvalidCount)
}

func TestMultipleChoiceFeedbackCollectedInSubmissionOrder(t *testing.T) {
	p, err := New("t", "q", mcqContent(true, nil,
		choice(true, Content{"feedback": "first"}),
		choice(true, Content{"feedback": "second"}),
		choice(false),
	), nil)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": []any{1, 0}}, "")
	assert.Equal(t, VerdictCorrect, result.Verdict)
	assert.Equal(t, []string{"second", "first"}, result.Messages)
}

func TestMultipleChoiceMessageComposition(t *testing.T) {
	t.Run("custom error message replaces generic key", func(t *testing.T) {
		p, err := New("t", "q", mcqContent(false, Content{"error_message": "think again"},
			choice(true), choice(false)), nil)
		require.NoError(t, err)
		result := p.CheckAnswer(Input{"q": 1}, "")
		assert.Equal(t, []string{"think again"}, result.Messages)
	})

	t.Run("centralized problem suppresses generic key", func(t *testing.T) {
		p, err := New("t", "q", mcqContent(false, Content{"centralize": true},
			choice(true), choice(false)), nil)
		require.NoError(t, err)
		result := p.CheckAnswer(Input{"q": 1}, "")
		assert.Nil(t, result.Messages)
		assert.Equal(t, 1, result.InvalidCount)
	})

	t.Run("multi select generic key", func(t *testing.T) {
		p, err := New("t", "q", mcqContent(true, nil, choice(true), choice(false)), nil)
		require.NoError(t, err)
		result := p.CheckAnswer(Input{"q": []any{1}}, "")
		assert.Equal(t, []string{"_wrong_answer_multiple"}, result.Messages)
	})

	t.Run("success message on correct answer", func(t *testing.T) {
		p, err := New("t", "q", mcqContent(false, Content{"success_message": "well done"},
			choice(true, Content{"feedback": "exactly"}), choice(false)), nil)
		require.NoError(t, err)
		result := p.CheckAnswer(Input{"q": 0}, "")
		assert.Equal(t, VerdictCorrect, result.Verdict)
		assert.Equal(t, []string{"well done", "exactly"}, result.Messages)
	})
}

func TestMultipleChoiceTranslatedFeedback(t *testing.T) {
	tr := i18n.NewRegistry(map[string]map[string]string{
		"fr": {"not quite": "pas tout à fait", "think again": "réfléchissez"},
	})
	p, err := New("t", "q", mcqContent(false, Content{"error_message": "think again"},
		choice(true), choice(false, Content{"feedback": "not quite"})), tr)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": 1}, "fr")
	assert.Equal(t, []string{"réfléchissez", "pas tout à fait"}, result.Messages)

	// Unknown language falls back to identity.
	result = p.CheckAnswer(Input{"q": 1}, "de")
	assert.Equal(t, []string{"think again", "not quite"}, result.Messages)
}

func TestMultipleChoiceInputIsConsistent(t *testing.T) {
	single, err := New("t", "q", mcqContent(false, nil, choice(true), choice(false)), nil)
	require.NoError(t, err)

	assert.True(t, single.InputIsConsistent(Input{"q": "1"}, nil, 0))
	assert.True(t, single.InputIsConsistent(Input{"q": 0}, nil, 0))
	assert.False(t, single.InputIsConsistent(Input{}, nil, 0))
	assert.False(t, single.InputIsConsistent(Input{"q": "abc"}, nil, 0))
	assert.False(t, single.InputIsConsistent(Input{"q": "5"}, nil, 0))

	multi, err := New("t", "q", mcqContent(true, nil, choice(true), choice(true)), nil)
	require.NoError(t, err)

	assert.True(t, multi.InputIsConsistent(Input{"q": []any{"0", 1}}, nil, 0))
	assert.True(t, multi.InputIsConsistent(Input{"q": []string{}}, nil, 0))
	assert.False(t, multi.InputIsConsistent(Input{"q": "0"}, nil, 0))
	assert.False(t, multi.InputIsConsistent(Input{"q": []any{"0", "9"}}, nil, 0))
	assert.False(t, multi.InputIsConsistent(Input{"q": []any{"x"}}, nil, 0))
}

func TestMultipleChoiceTextFields(t *testing.T) {
	p, err := New("t", "q", mcqContent(false, nil, choice(true)), nil)
	require.NoError(t, err)

	fields := p.TextFields()
	assert.Equal(t, true, fields["name"])
	assert.Equal(t, true, fields["header"])
	assert.Equal(t, true, fields["error_message"])
	assert.Equal(t, true, fields["success_message"])
	assert.Contains(t, fields, "choices")
}
