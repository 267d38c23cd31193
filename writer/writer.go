// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package writer implements the low-level cursor the Printer drives: it
// accumulates an append-only graph of WriteItems (text runs, tabs, spaces,
// newlines, indent markers) and tracks enough geometry — current line and
// column, indentation level, ignore-indent depth — to answer the Printer's
// "would this overflow" and "where am I" questions.
//
// Writer is not safe for concurrent use; each Printer owns exactly one.
package writer

import (
	"sync/atomic"

	"github.com/joscha/dprint/arena"
	"github.com/joscha/dprint/position"
)

var nextNodeID atomic.Uint64

// Kind identifies which field of a WriteItem is meaningful.
type Kind int

const (
	KindText Kind = iota
	KindTab
	KindSpace
	KindNewLine
	KindIndent
	KindStartIgnoringIndent
	KindFinishIgnoringIndent
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindTab:
		return "Tab"
	case KindSpace:
		return "Space"
	case KindNewLine:
		return "NewLine"
	case KindIndent:
		return "Indent"
	case KindStartIgnoringIndent:
		return "StartIgnoringIndent"
	case KindFinishIgnoringIndent:
		return "FinishIgnoringIndent"
	default:
		return "Kind(?)"
	}
}

// WriteItem is one emitted output operation (spec §6): Text(&str), Tab,
// Space, NewLine, Indent(level), StartIgnoringIndent, FinishIgnoringIndent.
type WriteItem struct {
	Kind  Kind
	Text  string // meaningful when Kind == KindText
	Level uint32 // meaningful when Kind == KindIndent: the indent level the following line should start at
}

// writeNode is one link of the append-only write-item graph. Nodes are
// allocated from an Arena and never mutated; a WriterState is just a pointer
// to one, so taking/restoring a snapshot is O(1) regardless of how much has
// been written.
type writeNode struct {
	id   uint64
	item WriteItem
	prev *writeNode
}

// indentFrame records whether an open indent was started immediately
// (StartIndent) or deferred to the next newline (QueueStartIndent), and
// whether a deferred one has since been folded into the live indent level.
type indentFrame struct {
	queued  bool
	applied bool
}

// State is a cheap snapshot of writer geometry, suitable for embedding in a
// printer.SavePoint: the write-item graph is shared by pointer, and only the
// open-indent stack is copied.
type State struct {
	last                  *writeNode
	charOffset            uint32
	lineNumber            uint32
	lineColumn            uint32
	lineStartIndentLevel  uint32
	lineStartColumnNumber uint32
	indentLevel           uint32
	pendingQueuedIndent   uint32
	ignoreIndentCount     uint32
	expectNewLine         bool
	indentStack           []indentFrame
}

// WriterInfo reconstructs the geometry a State held at the moment it was
// captured, without touching the live Writer. The printer uses this to
// re-resolve a stored condition against the position its save point was
// taken at, rather than the printer's current position.
func (s State) WriterInfo() WriterInfo {
	return WriterInfo{
		LineStartIndentLevel:  s.lineStartIndentLevel,
		LineStartColumnNumber: s.lineStartColumnNumber,
		LineNumber:            s.lineNumber,
		ColumnNumber:          s.lineColumn,
		IndentLevel:           s.indentLevel,
	}
}

// WriterInfo is the geometry exposed to condition resolvers and to Info
// resolution (spec §3). It also implements position.Position, so downstream
// tooling that already speaks the compileutil ecosystem's Position interface
// (e.g. a trace visualizer) can consume resolved Infos directly instead of
// needing a bespoke adapter. Filename is always empty and Offset counts
// characters written rather than source bytes, since a WriterInfo describes
// a position in the *output*, not in any source file. LineNumber and
// ColumnNumber, and so Line and Column, are zero-based; String reports them
// one-based, in the usual line:column form.
type WriterInfo struct {
	LineStartIndentLevel  uint32
	LineStartColumnNumber uint32
	LineNumber            uint32
	ColumnNumber          uint32
	IndentLevel           uint32
	CharOffset            uint32
}

var _ position.Position = WriterInfo{}

func (w WriterInfo) Filename() string { return "" }
func (w WriterInfo) Line() int        { return int(w.LineNumber) }
func (w WriterInfo) Column() int      { return int(w.ColumnNumber) }
func (w WriterInfo) Offset() int      { return int(w.CharOffset) }
func (w WriterInfo) Raw() position.Position {
	return w
}
func (w WriterInfo) String() string {
	return position.Pos("", int(w.LineNumber)+1, int(w.ColumnNumber)+1).String()
}

// GetLineAndColumn returns (line, column), the pair has_info_moved (spec
// §4.6) compares snapshots by.
func (w WriterInfo) GetLineAndColumn() (uint32, uint32) {
	return w.LineNumber, w.ColumnNumber
}

// Options configures a Writer.
type Options struct {
	IndentWidth uint8
}

// Writer is the printer's output cursor.
type Writer struct {
	bump *arena.Arena[writeNode]

	last                  *writeNode
	charOffset            uint32
	lineNumber            uint32
	lineColumn            uint32
	lineStartIndentLevel  uint32
	lineStartColumnNumber uint32
	indentLevel           uint32
	pendingQueuedIndent    uint32
	ignoreIndentCount     uint32
	expectNewLine         bool
	indentStack           []indentFrame

	indentWidth uint8
}

// New returns a fresh Writer with no content written yet.
func New(options Options) *Writer {
	return &Writer{
		bump:        arena.New[writeNode](),
		indentWidth: options.IndentWidth,
	}
}

// GetIndentWidth returns the configured indent width.
func (w *Writer) GetIndentWidth() uint8 { return w.indentWidth }

// GetLineNumber returns the current (zero-based) line number.
func (w *Writer) GetLineNumber() uint32 { return w.lineNumber }

// GetLineColumn returns the current column number on the current line.
func (w *Writer) GetLineColumn() uint32 { return w.lineColumn }

// GetIndentationLevel returns the current live indentation level.
func (w *Writer) GetIndentationLevel() uint32 { return w.indentLevel }

// GetLineStartIndentLevel returns the indentation level in effect at the
// start of the current line.
func (w *Writer) GetLineStartIndentLevel() uint32 { return w.lineStartIndentLevel }

// GetLineStartColumnNumber returns the column number the current line
// started at (i.e. the width its leading indentation occupies).
func (w *Writer) GetLineStartColumnNumber() uint32 { return w.lineStartColumnNumber }

// GetIgnoreIndentCount returns the current ignore-indent nesting depth.
func (w *Writer) GetIgnoreIndentCount() uint32 { return w.ignoreIndentCount }

func (w *Writer) push(item WriteItem) *writeNode {
	node := w.bump.Alloc(writeNode{id: nextNodeID.Add(1), item: item, prev: w.last})
	w.last = node
	return node
}

func (w *Writer) lastKind() (Kind, bool) {
	if w.last == nil {
		return 0, false
	}
	return w.last.item.Kind, true
}

// Write appends a text run. text must contain no '\n' and no '\t'; callers
// with text that might have either should route it through
// parserhelpers.ParseString first.
func (w *Writer) Write(text string) {
	if text == "" {
		return
	}
	if w.expectNewLine {
		w.expectNewLine = false
		w.newLineRaw()
	}
	w.push(WriteItem{Kind: KindText, Text: text})
	n := uint32(len([]rune(text)))
	w.lineColumn += n
	w.charOffset += n
}

// NewLine appends a newline, clearing any trailing space and resetting the
// column to the current indentation.
func (w *Writer) NewLine() {
	w.expectNewLine = false
	w.newLineRaw()
}

func (w *Writer) newLineRaw() {
	// drop a trailing space: it would otherwise sit uselessly at end of line
	if k, ok := w.lastKind(); ok && k == KindSpace {
		w.last = w.last.prev
	}

	w.applyPendingQueuedIndent()

	w.push(WriteItem{Kind: KindNewLine})
	w.lineNumber++
	w.lineColumn = 0
	w.charOffset++

	w.lineStartIndentLevel = w.indentLevel
	if w.ignoreIndentCount == 0 && w.indentLevel > 0 {
		w.push(WriteItem{Kind: KindIndent, Level: w.indentLevel})
		w.lineColumn = w.indentLevel * uint32(w.indentWidth)
	}
	w.lineStartColumnNumber = w.lineColumn
}

// MarkExpectNewLine records that a newline is required before the next text
// write; if Write is called before NewLine, a newline is inserted first.
func (w *Writer) MarkExpectNewLine() {
	w.expectNewLine = true
}

// SpaceIfNotTrailing appends a space unless the last item already is
// whitespace that would make it redundant.
func (w *Writer) SpaceIfNotTrailing() {
	if k, ok := w.lastKind(); ok {
		switch k {
		case KindSpace, KindNewLine, KindIndent, KindStartIgnoringIndent, KindFinishIgnoringIndent:
			return
		}
	}
	w.push(WriteItem{Kind: KindSpace})
	w.lineColumn++
	w.charOffset++
}

// Tab appends a literal tab character.
func (w *Writer) Tab() {
	w.push(WriteItem{Kind: KindTab})
	w.lineColumn += uint32(w.indentWidth)
	w.charOffset++
}

// SingleIndent appends one literal indent unit at the current cursor
// position (as opposed to the per-line Indent marker NewLine emits).
func (w *Writer) SingleIndent() {
	w.push(WriteItem{Kind: KindIndent, Level: 1})
	w.lineColumn += uint32(w.indentWidth)
	w.charOffset++
}

// StartIndent immediately increases the indentation level by one.
func (w *Writer) StartIndent() {
	w.indentLevel++
	w.indentStack = append(w.indentStack, indentFrame{queued: false, applied: true})
}

// QueueIndent increases the indentation level starting at the next newline,
// leaving the current line's indentation untouched.
func (w *Writer) QueueIndent() {
	w.indentStack = append(w.indentStack, indentFrame{queued: true, applied: false})
	w.pendingQueuedIndent++
}

// FinishIndent closes the most recently opened StartIndent or QueueIndent.
func (w *Writer) FinishIndent() {
	n := len(w.indentStack)
	if n == 0 {
		return
	}
	f := w.indentStack[n-1]
	w.indentStack = w.indentStack[:n-1]
	if f.applied {
		w.indentLevel--
	} else if f.queued {
		w.pendingQueuedIndent--
	}
}

func (w *Writer) applyPendingQueuedIndent() {
	if w.pendingQueuedIndent == 0 {
		return
	}
	w.indentLevel += w.pendingQueuedIndent
	for i := range w.indentStack {
		if w.indentStack[i].queued && !w.indentStack[i].applied {
			w.indentStack[i].applied = true
		}
	}
	w.pendingQueuedIndent = 0
}

// StartIgnoringIndent suppresses indentation emission for the region that
// follows, used within raw string blocks.
func (w *Writer) StartIgnoringIndent() {
	w.ignoreIndentCount++
	w.push(WriteItem{Kind: KindStartIgnoringIndent})
}

// FinishIgnoringIndent closes the most recently opened StartIgnoringIndent.
func (w *Writer) FinishIgnoringIndent() {
	if w.ignoreIndentCount > 0 {
		w.ignoreIndentCount--
	}
	w.push(WriteItem{Kind: KindFinishIgnoringIndent})
}

// GetState returns a snapshot of the writer's geometry, suitable for
// embedding in a printer.SavePoint. Its cost does not grow with the amount
// written; only the open-indent stack is copied.
func (w *Writer) GetState() State {
	indentStack := make([]indentFrame, len(w.indentStack))
	copy(indentStack, w.indentStack)
	return State{
		last:                  w.last,
		charOffset:            w.charOffset,
		lineNumber:            w.lineNumber,
		lineColumn:            w.lineColumn,
		lineStartIndentLevel:  w.lineStartIndentLevel,
		lineStartColumnNumber: w.lineStartColumnNumber,
		indentLevel:           w.indentLevel,
		pendingQueuedIndent:   w.pendingQueuedIndent,
		ignoreIndentCount:     w.ignoreIndentCount,
		expectNewLine:         w.expectNewLine,
		indentStack:           indentStack,
	}
}

// SetState restores the writer to a previously captured State.
func (w *Writer) SetState(s State) {
	w.last = s.last
	w.charOffset = s.charOffset
	w.lineNumber = s.lineNumber
	w.lineColumn = s.lineColumn
	w.lineStartIndentLevel = s.lineStartIndentLevel
	w.lineStartColumnNumber = s.lineStartColumnNumber
	w.indentLevel = s.indentLevel
	w.pendingQueuedIndent = s.pendingQueuedIndent
	w.ignoreIndentCount = s.ignoreIndentCount
	w.expectNewLine = s.expectNewLine
	indentStack := make([]indentFrame, len(s.indentStack))
	copy(indentStack, s.indentStack)
	w.indentStack = indentStack
}

// GetWriterInfo returns the current geometry as a WriterInfo.
func (w *Writer) GetWriterInfo() WriterInfo {
	return WriterInfo{
		LineStartIndentLevel:  w.lineStartIndentLevel,
		LineStartColumnNumber: w.lineStartColumnNumber,
		LineNumber:            w.lineNumber,
		ColumnNumber:          w.lineColumn,
		IndentLevel:           w.indentLevel,
		CharOffset:            w.charOffset,
	}
}

// GetCurrentNodeID returns the id of the most recently pushed WriteItem, or
// 0 if nothing has been written yet. Used only by the printer's optional
// tracing support.
func (w *Writer) GetCurrentNodeID() uint64 {
	if w.last == nil {
		return 0
	}
	return w.last.id
}

// Items returns the accepted WriteItem stream in emission order.
func (w *Writer) Items() []WriteItem {
	var reversed []WriteItem
	for n := w.last; n != nil; n = n.prev {
		reversed = append(reversed, n.item)
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}
