package problems

import (
	"strconv"
	"strings"
)

// BoxKind identifies an atomic input widget kind. The set is closed and
// construction validates against it exhaustively.
type BoxKind string

const (
	BoxInputText    BoxKind = "input-text"
	BoxInputDecimal BoxKind = "input-decimal"
	BoxInputInteger BoxKind = "input-integer"
	BoxMultiline    BoxKind = "multiline"
	BoxText         BoxKind = "text"
	BoxFile         BoxKind = "file"
)

// Box is one atomic input field of a code problem. Each box validates its
// own slice of the submitted input.
type Box interface {
	ID() string
	// CompleteID is the key the box's value is submitted under:
	// "problemid/boxid", or the problem id alone for the implicit box
	// with an empty id.
	CompleteID() string
	Kind() BoxKind
	InputIsConsistent(in Input, defaultAllowedExts []string, defaultMaxSize int64) bool
}

type boxConstructor func(problemID, boxID string, content Content) (Box, error)

var boxKinds = map[BoxKind]boxConstructor{
	BoxInputText:    newInputBox,
	BoxInputDecimal: newInputBox,
	BoxInputInteger: newInputBox,
	BoxMultiline:    newMultilineBox,
	BoxText:         newTextBox,
	BoxFile:         newFileBox,
}

type boxBase struct {
	problemID string
	boxID     string
	kind      BoxKind
}

func (b *boxBase) ID() string    { return b.boxID }
func (b *boxBase) Kind() BoxKind { return b.kind }

func (b *boxBase) CompleteID() string {
	if b.boxID == "" {
		return b.problemID
	}
	return b.problemID + "/" + b.boxID
}

// InputBox is a single-line field, optionally constrained to decimal or
// integer values.
type InputBox struct {
	boxBase
	optional bool
}

func newInputBox(problemID, boxID string, content Content) (Box, error) {
	kind, _ := content.str("type")
	return &InputBox{
		boxBase:  boxBase{problemID: problemID, boxID: boxID, kind: BoxKind(kind)},
		optional: content.boolean("optional"),
	}, nil
}

func (b *InputBox) InputIsConsistent(in Input, _ []string, _ int64) bool {
	value, ok := in[b.CompleteID()].(string)
	if !ok {
		return false
	}
	if value == "" {
		return b.optional
	}
	switch b.kind {
	case BoxInputDecimal:
		_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil
	case BoxInputInteger:
		_, err := strconv.Atoi(strings.TrimSpace(value))
		return err == nil
	default:
		return true
	}
}

// MultilineBox is a free-form text area, optionally tagged with a source
// language for syntax highlighting.
type MultilineBox struct {
	boxBase
	language string
	optional bool
}

func newMultilineBox(problemID, boxID string, content Content) (Box, error) {
	box := &MultilineBox{
		boxBase:  boxBase{problemID: problemID, boxID: boxID, kind: BoxMultiline},
		optional: content.boolean("optional"),
	}
	box.language, _ = content.str("language")
	return box, nil
}

func (b *MultilineBox) Language() string { return b.language }

func (b *MultilineBox) InputIsConsistent(in Input, _ []string, _ int64) bool {
	value, ok := in[b.CompleteID()].(string)
	if !ok {
		return false
	}
	if value == "" {
		return b.optional
	}
	return true
}

// TextBox displays static text between other boxes and never consumes
// input.
type TextBox struct {
	boxBase
	content string
}

func newTextBox(problemID, boxID string, content Content) (Box, error) {
	text, ok := content.str("content")
	if !ok {
		return nil, descriptorErrorf("text box %q has no content", boxID)
	}
	return &TextBox{
		boxBase: boxBase{problemID: problemID, boxID: boxID, kind: BoxText},
		content: text,
	}, nil
}

func (b *TextBox) Content() string { return b.content }

func (b *TextBox) InputIsConsistent(Input, []string, int64) bool { return true }

// FileBox is a file-upload field with size and extension constraints.
// Box-level limits take precedence over the platform defaults.
type FileBox struct {
	boxBase
	maxSize     int64
	allowedExts []string
}

func newFileBox(problemID, boxID string, content Content) (Box, error) {
	box := &FileBox{
		boxBase: boxBase{problemID: problemID, boxID: boxID, kind: BoxFile},
	}
	if size, ok := content.integer("max_size"); ok {
		box.maxSize = int64(size)
	}
	if exts, ok := toStringSlice(content["allowed_exts"]); ok {
		box.allowedExts = exts
	}
	return box, nil
}

func (b *FileBox) InputIsConsistent(in Input, defaultAllowedExts []string, defaultMaxSize int64) bool {
	filename, size, ok := parseFilePayload(in[b.CompleteID()])
	if !ok {
		return false
	}
	maxSize := b.maxSize
	if maxSize == 0 {
		maxSize = defaultMaxSize
	}
	if maxSize > 0 && size > maxSize {
		return false
	}
	allowed := b.allowedExts
	if len(allowed) == 0 {
		allowed = defaultAllowedExts
	}
	for _, ext := range allowed {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return len(allowed) == 0
}

func parseFilePayload(v any) (filename string, size int64, ok bool) {
	payload, ok := v.(map[string]any)
	if !ok {
		return "", 0, false
	}
	filename, ok = payload["filename"].(string)
	if !ok || filename == "" {
		return "", 0, false
	}
	switch value := payload["value"].(type) {
	case string:
		return filename, int64(len(value)), true
	case []byte:
		return filename, int64(len(value)), true
	default:
		return "", 0, false
	}
}
