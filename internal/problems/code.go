package problems

import (
	"sort"

	"github.com/eskildht/inginious/internal/i18n"
)

// codeProblem is the shared behavior of the code problem family: boxes
// validate the submission shape locally, grading is always deferred to
// the external backend.
type codeProblem struct {
	base
	boxes []Box
}

func (p *codeProblem) Boxes() []Box { return p.boxes }

func (p *codeProblem) InputIsConsistent(in Input, defaultAllowedExts []string, defaultMaxSize int64) bool {
	for _, box := range p.boxes {
		if !box.InputIsConsistent(in, defaultAllowedExts, defaultMaxSize) {
			return false
		}
	}
	return true
}

func (p *codeProblem) CheckAnswer(Input, string) Result {
	return Result{Verdict: VerdictDeferred}
}

// createBox builds one box, dispatching on its declared type. Box ids must
// be restricted identifiers or empty.
func (p *codeProblem) createBox(boxID string, content Content) (Box, error) {
	if boxID != "" && !ValidIdentifier(boxID) {
		return nil, descriptorErrorf("invalid box id %q in problem %q", boxID, p.id)
	}
	typ, ok := content.str("type")
	if !ok {
		return nil, descriptorErrorf("box %q in problem %q does not have a type", boxID, p.id)
	}
	ctor, ok := boxKinds[BoxKind(typ)]
	if !ok {
		return nil, descriptorErrorf("unknown box type %q for box %q in problem %q", typ, boxID, p.id)
	}
	return ctor(p.id, boxID, content)
}

// CodeProblem owns either an explicitly enumerated box set or one implicit
// multiline box.
type CodeProblem struct {
	codeProblem
}

func newCode(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	b, err := newBase(taskID, problemID, content, tr)
	if err != nil {
		return nil, err
	}
	p := &CodeProblem{codeProblem{base: b}}

	if rawBoxes, present := content["boxes"]; present {
		descriptors, ok := rawBoxes.(map[string]any)
		if !ok {
			return nil, descriptorErrorf("boxes of problem %q are not a mapping", problemID)
		}
		// Deterministic box order regardless of map iteration.
		boxIDs := make([]string, 0, len(descriptors))
		for boxID := range descriptors {
			// The implicit default box already owns the empty id.
			if boxID == "" {
				return nil, descriptorErrorf("empty box ids are not allowed in problem %q", problemID)
			}
			boxIDs = append(boxIDs, boxID)
		}
		sort.Strings(boxIDs)
		for _, boxID := range boxIDs {
			boxContent, ok := descriptors[boxID].(map[string]any)
			if !ok {
				return nil, descriptorErrorf("box %q in problem %q is not a mapping", boxID, problemID)
			}
			box, err := p.createBox(boxID, Content(boxContent))
			if err != nil {
				return nil, err
			}
			p.boxes = append(p.boxes, box)
		}
		return p, nil
	}

	boxContent := Content{"type": string(BoxMultiline), "optional": content.boolean("optional")}
	if language, ok := content.str("language"); ok {
		boxContent["language"] = language
	}
	box, err := p.createBox("", boxContent)
	if err != nil {
		return nil, err
	}
	p.boxes = []Box{box}
	return p, nil
}

func (p *CodeProblem) Kind() Kind { return KindCode }

// CodeSingleLineProblem is a code problem reduced to a single line of
// input.
type CodeSingleLineProblem struct {
	codeProblem
}

func newCodeSingleLine(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	b, err := newBase(taskID, problemID, content, tr)
	if err != nil {
		return nil, err
	}
	p := &CodeSingleLineProblem{codeProblem{base: b}}
	box, err := p.createBox("", Content{"type": string(BoxInputText), "optional": content.boolean("optional")})
	if err != nil {
		return nil, err
	}
	p.boxes = []Box{box}
	return p, nil
}

func (p *CodeSingleLineProblem) Kind() Kind { return KindCodeSingleLine }

// CodeFileProblem grades an uploaded file, forwarding the problem-level
// size and extension limits to its single file box.
type CodeFileProblem struct {
	codeProblem
}

func newCodeFile(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	b, err := newBase(taskID, problemID, content, tr)
	if err != nil {
		return nil, err
	}
	p := &CodeFileProblem{codeProblem{base: b}}
	boxContent := Content{"type": string(BoxFile)}
	if maxSize, ok := content["max_size"]; ok {
		boxContent["max_size"] = maxSize
	}
	if exts, ok := content["allowed_exts"]; ok {
		boxContent["allowed_exts"] = exts
	}
	box, err := p.createBox("", boxContent)
	if err != nil {
		return nil, err
	}
	p.boxes = []Box{box}
	return p, nil
}

func (p *CodeFileProblem) Kind() Kind { return KindCodeFile }
