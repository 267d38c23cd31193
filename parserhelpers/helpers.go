// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package parserhelpers implements stock PrintItems constructors that a
// parser uses to build up a print graph: wrapping a subtree in an
// indent, forcing it onto one line, splitting raw text into
// String/NewLine/Tab items, and the like. None of this is required by
// package printer — a parser could build a PrintItems graph by hand —
// but every non-trivial parser needs most of it, so it's offered as a
// reusable layer the same way the original system does.
package parserhelpers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joscha/dprint/condresolvers"
	"github.com/joscha/dprint/conditions"
	"github.com/joscha/dprint/printitems"
)

// SurroundWithNewLines wraps item with a NewLine signal before and
// after it. A no-op on an empty item.
func SurroundWithNewLines(item printitems.PrintItems) printitems.PrintItems {
	if item.IsEmpty() {
		return item
	}
	var items printitems.PrintItems
	items.PushSignal(printitems.SignalNewLine)
	items.Extend(item)
	items.PushSignal(printitems.SignalNewLine)
	return items
}

// WithIndent wraps item in a single StartIndent/FinishIndent pair.
func WithIndent(item printitems.PrintItems) printitems.PrintItems {
	return WithIndentTimes(item, 1)
}

// WithQueuedIndent wraps item in a QueueStartIndent/FinishIndent pair:
// the indent only takes effect starting at the next newline, rather
// than immediately.
func WithQueuedIndent(item printitems.PrintItems) printitems.PrintItems {
	if item.IsEmpty() {
		return item
	}
	var items printitems.PrintItems
	items.PushSignal(printitems.SignalQueueStartIndent)
	items.Extend(item)
	items.PushSignal(printitems.SignalFinishIndent)
	return items
}

// WithIndentTimes wraps item in times nested StartIndent/FinishIndent
// pairs.
func WithIndentTimes(item printitems.PrintItems, times uint32) printitems.PrintItems {
	if item.IsEmpty() {
		return item
	}
	var items printitems.PrintItems
	for i := uint32(0); i < times; i++ {
		items.PushSignal(printitems.SignalStartIndent)
	}
	items.Extend(item)
	for i := uint32(0); i < times; i++ {
		items.PushSignal(printitems.SignalFinishIndent)
	}
	return items
}

// WithNoNewLines wraps item so the printer will not break any line
// within it, regardless of width.
func WithNoNewLines(item printitems.PrintItems) printitems.PrintItems {
	if item.IsEmpty() {
		return item
	}
	var items printitems.PrintItems
	items.PushSignal(printitems.SignalStartForceNoNewLines)
	items.Extend(item)
	items.PushSignal(printitems.SignalFinishForceNoNewLines)
	return items
}

// NewLineGroup wraps item in a StartNewLineGroup/FinishNewLineGroup
// pair, so a rewind triggered by a break inside it never jumps to a
// save point that lies within a narrower-scoped group than the one the
// break occurred in.
func NewLineGroup(item printitems.PrintItems) printitems.PrintItems {
	if item.IsEmpty() {
		return item
	}
	var items printitems.PrintItems
	items.PushSignal(printitems.SignalStartNewLineGroup)
	items.Extend(item)
	items.PushSignal(printitems.SignalFinishNewLineGroup)
	return items
}

// ParseRawString parses text as-is, ignoring the indentation it would
// otherwise pick up from its surrounding context.
func ParseRawString(text string) printitems.PrintItems {
	return parseRawStringLines(text, ParseString)
}

// ParseRawStringTrimLineEnds is like ParseRawString but trims trailing
// whitespace from each line.
func ParseRawStringTrimLineEnds(text string) printitems.PrintItems {
	return parseRawStringLines(text, func(line string) printitems.PrintItems {
		return parseStringLine(strings.TrimRightFunc(line, unicode.IsSpace))
	})
}

func parseRawStringLines(text string, parseLine func(string) printitems.PrintItems) printitems.PrintItems {
	addIgnoreIndent := strings.Contains(text, "\n")
	var items printitems.PrintItems
	if addIgnoreIndent {
		items.PushSignal(printitems.SignalStartIgnoringIndent)
	}
	items.Extend(parseStringLines(text, parseLine))
	if addIgnoreIndent {
		items.PushSignal(printitems.SignalFinishIgnoringIndent)
	}
	return items
}

// ParseString splits text into String/NewLine/Tab items, the shape
// every raw piece of source text needs before being pushed into a
// PrintItems graph (see the package doc on Write in package writer).
func ParseString(text string) printitems.PrintItems {
	return parseStringLines(text, parseStringLine)
}

// ParseStringTrimLineEnds is like ParseString but trims trailing
// whitespace from each line first.
func ParseStringTrimLineEnds(text string) printitems.PrintItems {
	return parseStringLines(text, func(line string) printitems.PrintItems {
		return parseStringLine(strings.TrimRightFunc(line, unicode.IsSpace))
	})
}

func parseStringLines(text string, parseLine func(string) printitems.PrintItems) printitems.PrintItems {
	var items printitems.PrintItems
	for i, line := range splitLines(text) {
		if i > 0 {
			items.PushSignal(printitems.SignalNewLine)
		}
		items.Extend(parseLine(line))
	}
	if strings.HasSuffix(text, "\n") {
		items.PushSignal(printitems.SignalNewLine)
	}
	return items
}

// splitLines mirrors Rust's str::lines(): split on '\n', drop a
// trailing '\r' from each line, and never yield a trailing empty
// element for a string that ends in '\n' (the caller re-adds that
// final newline itself based on HasSuffix).
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	for i, line := range raw {
		raw[i] = strings.TrimSuffix(line, "\r")
	}
	return raw
}

func parseStringLine(line string) printitems.PrintItems {
	var items printitems.PrintItems
	for i, part := range strings.Split(line, "\t") {
		if i > 0 {
			items.PushSignal(printitems.SignalTab)
		}
		if part != "" {
			items.PushStr(part)
		}
	}
	return items
}

// SurroundWithNewLinesIndentedIfMultiLine surrounds innerItems with
// newlines and an indent if resolving them ends up spanning more than
// one line, and otherwise leaves them flat with just a possible break
// offered once the cursor has already passed indentWidth. It depends on
// two Infos bracketing innerItems to compare line numbers; the
// condition re-resolves itself whenever the end Info's resolution
// changes, and clears its memory of the end Info whenever the start
// Info's position moves, so a previous resolution from a discarded
// rewind never leaks into the next attempt.
func SurroundWithNewLinesIndentedIfMultiLine(innerItems printitems.PrintItems, indentWidth uint8) printitems.PrintItems {
	if innerItems.IsEmpty() {
		return innerItems
	}

	startInfo := printitems.NewInfo("surroundWithNewLinesIndentedIfMultiLineStart")
	endInfo := printitems.NewInfo("surroundWithNewLineIndentedsIfMultiLineEnd")
	innerHead := innerItems.IntoRcPath()

	truePath := SurroundWithNewLines(WithIndent(pathItems(innerHead)))

	var falsePath printitems.PrintItems
	falsePath.PushCondition(conditions.IfAboveWidth(indentWidth, signalItems(printitems.SignalPossibleNewLine)))
	falsePath.Extend(pathItems(innerHead))

	condition := printitems.NewConditionWithDependentInfos("newlineIfMultiLine", printitems.ConditionProperties{
		TruePath:  truePath,
		FalsePath: falsePath,
		Resolve: func(ctx printitems.ConditionResolverContext) (bool, bool) {
			moved, ok := ctx.HasInfoMoved(startInfo)
			if !ok {
				return false, false
			}
			if moved {
				ctx.ClearInfo(endInfo)
			}
			return condresolvers.IsMultipleLines(ctx, startInfo, endInfo)
		},
	}, []printitems.Info{endInfo})

	var items printitems.PrintItems
	items.PushInfo(startInfo)
	items.PushCondition(condition)
	items.PushInfo(endInfo)
	return items
}

func pathItems(head *printitems.Node) printitems.PrintItems {
	var items printitems.PrintItems
	items.PushPath(head)
	return items
}

func signalItems(s printitems.Signal) printitems.PrintItems {
	var items printitems.PrintItems
	items.PushSignal(s)
	return items
}

// ParseJSLikeCommentLine parses text into a `// ...`-style single-line
// comment, forcing no internal line breaks and requiring a newline
// after it.
func ParseJSLikeCommentLine(text string, forceSpaceAfterSlashes bool) printitems.PrintItems {
	var items printitems.PrintItems
	items.Extend(ParseRawString(commentLineText(text, forceSpaceAfterSlashes)))
	items.PushSignal(printitems.SignalExpectNewLine)
	return WithNoNewLines(items)
}

func commentLineText(original string, forceSpaceAfterSlashes bool) string {
	runes := []rune(original)
	nonSlashIndex := firstNonSlashIndex(runes)
	skipSpace := forceSpaceAfterSlashes && nonSlashIndex < len(runes) && runes[nonSlashIndex] == ' '
	startIndex := nonSlashIndex
	if skipSpace {
		startIndex++
	}
	var commentOriginal string
	if startIndex <= len(runes) {
		commentOriginal = string(runes[startIndex:])
	}
	commentText := strings.TrimRightFunc(commentOriginal, unicode.IsSpace)
	prefix := "//" + string(runes[:nonSlashIndex])
	if commentText == "" {
		return prefix
	}
	if forceSpaceAfterSlashes {
		return prefix + " " + commentText
	}
	return prefix + commentText
}

func firstNonSlashIndex(runes []rune) int {
	for i, r := range runes {
		if r != '/' {
			return i
		}
	}
	return len(runes)
}

// ParseJSLikeCommentBlock parses text into a `/* ... */`-style block
// comment, preserving the text's own indentation.
func ParseJSLikeCommentBlock(text string) printitems.PrintItems {
	var items printitems.PrintItems
	addIgnoreIndent := strings.Contains(text, "\n")
	trailingWhitespace := lastLineTrailingWhitespace(text)

	items.PushStr("/*")
	if addIgnoreIndent {
		items.PushSignal(printitems.SignalStartIgnoringIndent)
	}
	items.Extend(ParseStringTrimLineEnds(text))

	if trailingWhitespace != "" {
		items.PushStr(trailingWhitespace)
	}

	if addIgnoreIndent {
		items.PushSignal(printitems.SignalFinishIgnoringIndent)
	}
	items.PushStr("*/")
	return items
}

func lastLineTrailingWhitespace(text string) string {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	trailing := text[len(trimmed):]
	if idx := strings.LastIndex(trailing, "\n"); idx >= 0 {
		return trailing[idx+1:]
	}
	return trailing
}

// TextHasDprintIgnore reports whether text contains searchingText as a
// whole "word" (not immediately preceded or followed by another
// alphanumeric character) — the shape of a `dprint-ignore` directive
// check. Only the first occurrence of searchingText is examined.
func TextHasDprintIgnore(text, searchingText string) bool {
	pos := strings.Index(text, searchingText)
	if pos < 0 {
		return false
	}
	end := pos + len(searchingText)
	if pos > 0 && isAlphaNumericAt(text, pos-1) {
		return false
	}
	if isAlphaNumericAt(text, end) {
		return false
	}
	return true
}

func isAlphaNumericAt(text string, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
