package problems

import (
	"github.com/eskildht/inginious/internal/i18n"
)

// Choice is one selectable entry of a multiple-choice problem. Index is
// assigned by declaration order in the descriptor and stays stable even
// though choices are reordered valid-first afterwards.
type Choice struct {
	Index    int
	Text     string
	Feedback string
	// HasFeedback distinguishes an absent feedback from an empty one.
	HasFeedback bool
	Valid       bool
}

// MultipleChoiceProblem holds an ordered list of choices, a selection
// limit and a single/multiple selection mode.
type MultipleChoiceProblem struct {
	base
	multiple       bool
	limit          int
	centralize     bool
	errorMessage   string
	successMessage string
	choices        []Choice
}

func newMultipleChoice(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	b, err := newBase(taskID, problemID, content, tr)
	if err != nil {
		return nil, err
	}
	p := &MultipleChoiceProblem{
		base:       b,
		multiple:   content.boolean("multiple"),
		centralize: content.boolean("centralize"),
	}
	p.errorMessage, _ = content.str("error_message")
	p.successMessage, _ = content.str("success_message")

	rawChoices, ok := content["choices"].([]any)
	if !ok {
		if typed, isTyped := content["choices"].([]map[string]any); isTyped {
			rawChoices = make([]any, len(typed))
			for i, c := range typed {
				rawChoices[i] = c
			}
		} else {
			return nil, descriptorErrorf("multiple choice problem %q does not have choices or choices are not an array", problemID)
		}
	}

	var valid, invalid []Choice
	for index, raw := range rawChoices {
		descriptor, ok := raw.(map[string]any)
		if !ok {
			return nil, descriptorErrorf("choice %d in %q is not a mapping", index, problemID)
		}
		cc := Content(descriptor)
		text, ok := cc.str("text")
		if !ok {
			return nil, descriptorErrorf("a choice in %q does not have text", problemID)
		}
		choice := Choice{Index: index, Text: text, Valid: cc.boolean("valid")}
		choice.Feedback, choice.HasFeedback = cc.str("feedback")
		if choice.Valid {
			valid = append(valid, choice)
		} else {
			invalid = append(invalid, choice)
		}
	}
	if len(valid) == 0 {
		return nil, descriptorErrorf("problem %q does not have any valid answer", problemID)
	}

	if _, present := content["limit"]; present {
		limit, ok := content.integer("limit")
		if !ok || limit < 0 || (p.multiple && limit != 0 && limit < len(valid)) {
			return nil, descriptorErrorf("invalid limit in problem %q", problemID)
		}
		p.limit = limit
	}

	// Valid choices precede invalid ones; this order is what clients see.
	p.choices = append(valid, invalid...)
	return p, nil
}

func (p *MultipleChoiceProblem) Kind() Kind { return KindMultipleChoice }

// AllowsMultiple reports whether several answers may be checked at once.
func (p *MultipleChoiceProblem) AllowsMultiple() bool { return p.multiple }

func (p *MultipleChoiceProblem) Limit() int { return p.limit }

func (p *MultipleChoiceProblem) Choices() []Choice { return p.choices }

// ChoiceWithIndex returns the choice declared at index, or nil.
func (p *MultipleChoiceProblem) ChoiceWithIndex(index int) *Choice {
	for i := range p.choices {
		if p.choices[i].Index == index {
			return &p.choices[i]
		}
	}
	return nil
}

func (p *MultipleChoiceProblem) TextFields() map[string]any {
	fields := p.base.TextFields()
	fields["success_message"] = true
	fields["error_message"] = true
	fields["choices"] = []map[string]any{{"text": true, "feedback": true}}
	return fields
}

func (p *MultipleChoiceProblem) InputIsConsistent(in Input, _ []string, _ int64) bool {
	value, ok := in[p.id]
	if !ok {
		return false
	}
	if p.multiple {
		entries, ok := toList(value)
		if !ok {
			return false
		}
		for _, entry := range entries {
			index, ok := toInt(entry)
			if !ok || p.ChoiceWithIndex(index) == nil {
				return false
			}
		}
		return true
	}
	index, ok := toInt(value)
	return ok && p.ChoiceWithIndex(index) != nil
}

func (p *MultipleChoiceProblem) CheckAnswer(in Input, language string) Result {
	valid := true
	var msgs []string
	invalidCount := 0

	if p.multiple {
		entries, _ := toList(in[p.id])
		selected := make(map[int]bool, len(entries))
		for _, entry := range entries {
			// Indices are normalized to integers at the input boundary,
			// but string-typed entries from untyped clients still parse.
			if index, ok := toInt(entry); ok {
				selected[index] = true
			}
		}
		for _, choice := range p.choices {
			if choice.Valid != selected[choice.Index] {
				valid = false
				invalidCount++
			}
		}
		for _, entry := range entries {
			index, ok := toInt(entry)
			if !ok {
				continue
			}
			if choice := p.ChoiceWithIndex(index); choice != nil && choice.HasFeedback {
				msgs = append(msgs, p.gettext(language, choice.Feedback))
			}
		}
	} else {
		index, _ := toInt(in[p.id])
		choice := p.ChoiceWithIndex(index)
		if choice == nil {
			return Result{Verdict: VerdictWrong, InvalidCount: 1}
		}
		valid = choice.Valid
		if !valid {
			invalidCount++
		}
		if choice.HasFeedback {
			msgs = append(msgs, p.gettext(language, choice.Feedback))
		}
	}

	if !valid {
		if p.errorMessage != "" {
			msgs = append([]string{p.gettext(language, p.errorMessage)}, msgs...)
		} else if !p.centralize {
			generic := "_wrong_answer"
			if p.multiple {
				generic = "_wrong_answer_multiple"
			}
			msgs = append([]string{generic}, msgs...)
		}
		if len(msgs) == 0 {
			msgs = nil
		}
		return Result{Verdict: VerdictWrong, Messages: msgs, InvalidCount: invalidCount}
	}

	if p.successMessage != "" {
		msgs = append([]string{p.gettext(language, p.successMessage)}, msgs...)
	}
	if len(msgs) == 0 {
		msgs = nil
	}
	return Result{Verdict: VerdictCorrect, Messages: msgs}
}
