// Package problems implements the answer-checking model: each gradable
// sub-question of a task is a Problem built once from its authoring
// descriptor, immutable afterwards, able to validate a submission for
// shape and to grade it (or declare that grading belongs to the external
// grader).
package problems

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/eskildht/inginious/internal/i18n"
)

// Kind identifies a problem variant. The set is closed: constructors are
// dispatched through the registry in registry.go.
type Kind string

const (
	KindMatch          Kind = "match"
	KindMultipleChoice Kind = "multiple-choice"
	KindCode           Kind = "code"
	KindCodeFile       Kind = "code-file"
	KindCodeSingleLine Kind = "code-single-line"
)

// Verdict is the tri-state outcome of grading a single problem.
type Verdict int

const (
	// VerdictDeferred means the problem cannot be graded locally and must
	// be sent to the external grading backend.
	VerdictDeferred Verdict = iota
	VerdictWrong
	VerdictCorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictWrong:
		return "wrong"
	default:
		return "deferred"
	}
}

// Result is the grading contract every variant honors, even when actual
// grading is delegated to the backend.
type Result struct {
	Verdict Verdict
	// TaskMessage is a task-level message slot, currently unused but kept
	// stable for the orchestrator and API serialization.
	TaskMessage string
	// Messages holds localizable feedback message keys, nil when there is
	// no feedback.
	Messages []string
	// InvalidCount is the number of invalid sub-answers; zero unless the
	// variant is multi-select.
	InvalidCount int
}

// Input is a submission payload: problem id (or composite box id) to
// submitted value. Values are scalars, lists or file payloads depending on
// the problem kind.
type Input map[string]any

// ErrBadDescriptor marks every construction-time contract violation. A
// descriptor failing construction must abort loading of the whole task.
var ErrBadDescriptor = errors.New("invalid problem descriptor")

func descriptorErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadDescriptor, fmt.Sprintf(format, args...))
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// ValidIdentifier reports whether s is a restricted identifier safe for
// problem, box, task and course ids.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Problem is the contract every variant supports.
type Problem interface {
	// Kind returns the fixed variant tag, used for dispatch elsewhere.
	Kind() Kind
	ID() string
	// TaskID is the non-owning handle to the task this problem belongs to.
	TaskID() string
	Name(language string) string
	Header(language string) string
	// OriginalContent returns a copy of the descriptor the problem was
	// built from.
	OriginalContent() Content
	// TextFields declares which descriptor keys hold human-readable text,
	// for translation-extraction tooling. Subtypes extend the base
	// declaration rather than replace it.
	TextFields() map[string]any
	// InputIsConsistent reports whether in contains a well-formed value
	// for this problem (and every owned box). It fails closed: malformed
	// or missing fields yield false, never a panic.
	InputIsConsistent(in Input, defaultAllowedExts []string, defaultMaxSize int64) bool
	// CheckAnswer grades the submission. Callers must have established
	// consistency first.
	CheckAnswer(in Input, language string) Result
}

// base carries the state shared by all variants.
type base struct {
	id           string
	taskID       string
	name         string
	header       string
	content      Content
	translations *i18n.Registry
}

func newBase(taskID, problemID string, content Content, tr *i18n.Registry) (base, error) {
	if !ValidIdentifier(problemID) {
		return base{}, descriptorErrorf("invalid problem id %q", problemID)
	}
	b := base{
		id:           problemID,
		taskID:       taskID,
		content:      content,
		translations: tr,
	}
	b.name, _ = content.str("name")
	b.header, _ = content.str("header")
	return b, nil
}

func (b *base) ID() string     { return b.id }
func (b *base) TaskID() string { return b.taskID }

func (b *base) Name(language string) string {
	if b.name == "" {
		return ""
	}
	return b.gettext(language, b.name)
}

func (b *base) Header(language string) string {
	if b.header == "" {
		return ""
	}
	return b.gettext(language, b.header)
}

func (b *base) OriginalContent() Content {
	return b.content.Clone()
}

func (b *base) TextFields() map[string]any {
	return map[string]any{"name": true, "header": true}
}

func (b *base) gettext(language, key string) string {
	return b.translations.Get(language).Translate(key)
}
