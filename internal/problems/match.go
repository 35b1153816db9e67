package problems

import (
	"fmt"
	"strings"

	"github.com/eskildht/inginious/internal/i18n"
)

// MatchProblem displays an input box and checks that its content equals
// the stored answer exactly, byte for byte, after trimming.
type MatchProblem struct {
	base
	answer string
}

func newMatch(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	b, err := newBase(taskID, problemID, content, tr)
	if err != nil {
		return nil, err
	}
	answer, ok := content["answer"]
	if !ok {
		return nil, descriptorErrorf("match problem %q has no answer", problemID)
	}
	return &MatchProblem{base: b, answer: fmt.Sprint(answer)}, nil
}

func (p *MatchProblem) Kind() Kind { return KindMatch }

func (p *MatchProblem) Answer() string { return p.answer }

func (p *MatchProblem) InputIsConsistent(in Input, _ []string, _ int64) bool {
	_, ok := in[p.id].(string)
	return ok
}

func (p *MatchProblem) CheckAnswer(in Input, _ string) Result {
	submitted, _ := in[p.id].(string)
	if strings.TrimSpace(submitted) == p.answer {
		return Result{Verdict: VerdictCorrect, Messages: []string{"_correct_answer"}}
	}
	return Result{Verdict: VerdictWrong, Messages: []string{"_wrong_answer"}}
}
