package problems

import "github.com/eskildht/inginious/internal/i18n"

type constructor func(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error)

// kinds is the closed problem-type registry. Adding a variant means adding
// its constructor here.
var kinds = map[Kind]constructor{
	KindMatch:          newMatch,
	KindMultipleChoice: newMultipleChoice,
	KindCode:           newCode,
	KindCodeFile:       newCodeFile,
	KindCodeSingleLine: newCodeSingleLine,
}

// New builds the problem described by content, dispatching on its "type"
// key. Unknown or missing types fail construction.
func New(taskID, problemID string, content Content, tr *i18n.Registry) (Problem, error) {
	typ, ok := content.str("type")
	if !ok {
		return nil, descriptorErrorf("problem %q has no type", problemID)
	}
	ctor, ok := kinds[Kind(typ)]
	if !ok {
		return nil, descriptorErrorf("unknown problem type %q for problem %q", typ, problemID)
	}
	return ctor(taskID, problemID, content, tr)
}
