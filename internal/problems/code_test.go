package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeProblemImplicitMultilineBox(t *testing.T) {
	p, err := New("t", "q", Content{"type": "code", "language": "python"}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindCode, p.Kind())

	boxes := p.(*CodeProblem).Boxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, BoxMultiline, boxes[0].Kind())
	assert.Equal(t, "q", boxes[0].CompleteID())
	assert.Equal(t, "python", boxes[0].(*MultilineBox).Language())
}

func TestCodeProblemExplicitBoxes(t *testing.T) {
	p, err := New("t", "q", Content{
		"type": "code",
		"boxes": map[string]any{
			"main":   map[string]any{"type": "multiline"},
			"header": map[string]any{"type": "input-text"},
		},
	}, nil)
	require.NoError(t, err)

	boxes := p.(*CodeProblem).Boxes()
	require.Len(t, boxes, 2)
	// Boxes come out in deterministic id order.
	assert.Equal(t, "q/header", boxes[0].CompleteID())
	assert.Equal(t, "q/main", boxes[1].CompleteID())
}

func TestCodeProblemRejectsEmptyExplicitBoxID(t *testing.T) {
	_, err := New("t", "q", Content{
		"type":  "code",
		"boxes": map[string]any{"": map[string]any{"type": "multiline"}},
	}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestCodeProblemRejectsUnknownBoxType(t *testing.T) {
	_, err := New("t", "q", Content{
		"type":  "code",
		"boxes": map[string]any{"b1": map[string]any{"type": "hologram"}},
	}, nil)
	require.ErrorIs(t, err, ErrBadDescriptor)
	assert.Contains(t, err.Error(), "b1")
}

func TestCodeProblemRejectsBoxWithoutType(t *testing.T) {
	_, err := New("t", "q", Content{
		"type":  "code",
		"boxes": map[string]any{"b1": map[string]any{}},
	}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestCodeProblemAlwaysDefers(t *testing.T) {
	p, err := New("t", "q", Content{"type": "code"}, nil)
	require.NoError(t, err)

	result := p.CheckAnswer(Input{"q": "print('hi')"}, "")
	assert.Equal(t, VerdictDeferred, result.Verdict)
	assert.Nil(t, result.Messages)
	assert.Zero(t, result.InvalidCount)
}

func TestCodeProblemConsistencyShortCircuits(t *testing.T) {
	p, err := New("t", "q", Content{
		"type": "code",
		"boxes": map[string]any{
			"a": map[string]any{"type": "input-integer"},
			"b": map[string]any{"type": "multiline"},
		},
	}, nil)
	require.NoError(t, err)

	assert.True(t, p.InputIsConsistent(Input{"q/a": "3", "q/b": "code"}, nil, 0))
	assert.False(t, p.InputIsConsistent(Input{"q/a": "NaN", "q/b": "code"}, nil, 0))
	assert.False(t, p.InputIsConsistent(Input{"q/b": "code"}, nil, 0))
}

func TestCodeSingleLineProblem(t *testing.T) {
	p, err := New("t", "q", Content{"type": "code-single-line"}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindCodeSingleLine, p.Kind())

	boxes := p.(*CodeSingleLineProblem).Boxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, BoxInputText, boxes[0].Kind())

	assert.True(t, p.InputIsConsistent(Input{"q": "one line"}, nil, 0))
	assert.False(t, p.InputIsConsistent(Input{"q": ""}, nil, 0))
	assert.False(t, p.InputIsConsistent(Input{}, nil, 0))
}

func TestCodeSingleLineOptional(t *testing.T) {
	p, err := New("t", "q", Content{"type": "code-single-line", "optional": true}, nil)
	require.NoError(t, err)
	assert.True(t, p.InputIsConsistent(Input{"q": ""}, nil, 0))
}

func TestCodeFileProblem(t *testing.T) {
	p, err := New("t", "q", Content{
		"type":         "code-file",
		"max_size":     16,
		"allowed_exts": []any{".c", ".h"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindCodeFile, p.Kind())

	file := func(name, value string) Input {
		return Input{"q": map[string]any{"filename": name, "value": value}}
	}

	assert.True(t, p.InputIsConsistent(file("main.c", "int main;"), nil, 0))
	assert.False(t, p.InputIsConsistent(file("main.py", "pass"), nil, 0), "extension not allowed")
	assert.False(t, p.InputIsConsistent(file("main.c", "int main() { return 0; }"), nil, 0), "over max size")
	assert.False(t, p.InputIsConsistent(Input{"q": "not a file"}, nil, 0))
	assert.False(t, p.InputIsConsistent(Input{"q": map[string]any{}}, nil, 0))
	// Missing file box submission must not panic.
	assert.False(t, p.InputIsConsistent(Input{}, nil, 0))
}

func TestCodeFileProblemUsesDefaults(t *testing.T) {
	p, err := New("t", "q", Content{"type": "code-file"}, nil)
	require.NoError(t, err)

	in := Input{"q": map[string]any{"filename": "sol.py", "value": "print()"}}
	assert.True(t, p.InputIsConsistent(in, []string{".py"}, 1024))
	assert.False(t, p.InputIsConsistent(in, []string{".c"}, 1024))
	assert.False(t, p.InputIsConsistent(in, []string{".py"}, 3))
}

func TestUnknownProblemType(t *testing.T) {
	_, err := New("t", "q", Content{"type": "telepathy"}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)

	_, err = New("t", "q", Content{}, nil)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("abc_DEF-1.2"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("white space"))
	assert.False(t, ValidIdentifier("slash/id"))
}
