// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

package parserhelpers

import (
	"testing"

	"github.com/joscha/dprint/printer"
	"github.com/joscha/dprint/printitems"
	"github.com/joscha/dprint/writer"
)

func textOf(items []writer.WriteItem) string {
	const indentWidth = 2
	out := ""
	for _, it := range items {
		switch it.Kind {
		case writer.KindText:
			out += it.Text
		case writer.KindTab:
			out += "\t"
		case writer.KindSpace:
			out += " "
		case writer.KindNewLine:
			out += "\n"
		case writer.KindIndent:
			for i := uint32(0); i < it.Level*indentWidth; i++ {
				out += " "
			}
		}
	}
	return out
}

func print(items printitems.PrintItems, maxWidth uint32) string {
	p := printer.New(items, printer.PrinterOptions{MaxWidth: maxWidth, IndentWidth: 2})
	return textOf(p.Print())
}

func TestSurroundWithNewLinesWrapsNonEmptyItem(t *testing.T) {
	got := print(SurroundWithNewLines(ParseString("body")), 80)
	want := "\nbody\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSurroundWithNewLinesIsNoOpOnEmpty(t *testing.T) {
	var empty printitems.PrintItems
	got := SurroundWithNewLines(empty)
	if !got.IsEmpty() {
		t.Fatalf("expected empty result for empty input")
	}
}

// The newline that a level of indent applies to must be signalled *inside*
// WithIndent's Start/FinishIndent pair, not before it: Indent markers are
// decided by a NewLine's own call-time indentLevel (see writer.newLineRaw),
// so a NewLine pushed ahead of StartIndent commits to no indent at all.
func TestWithIndentAddsOneLevel(t *testing.T) {
	var inner printitems.PrintItems
	inner.PushSignal(printitems.SignalNewLine)
	inner.PushStr("body")

	got := print(WithIndent(inner), 80)
	want := "\n  body"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWithIndentTimesNestsMultipleLevels(t *testing.T) {
	var inner printitems.PrintItems
	inner.PushSignal(printitems.SignalNewLine)
	inner.PushStr("body")

	got := print(WithIndentTimes(inner, 3), 80)
	want := "\n      body"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWithQueuedIndentAppliesOnNextNewLineOnly(t *testing.T) {
	var inner printitems.PrintItems
	inner.PushStr("same-line")
	inner.PushSignal(printitems.SignalNewLine)
	inner.PushStr("indented")

	var items printitems.PrintItems
	items.Extend(WithQueuedIndent(inner))

	got := print(items, 80)
	want := "same-line\n  indented"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWithNoNewLinesSuppressesBreaksEvenOverWidth(t *testing.T) {
	var words printitems.PrintItems
	words.PushStr("aaaa")
	words.PushSignal(printitems.SignalSpaceOrNewLine)
	words.PushStr("bbbb")

	got := print(WithNoNewLines(words), 4)
	want := "aaaa bbbb"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseStringSplitsOnNewLinesAndTabs(t *testing.T) {
	got := print(ParseString("a\tb\nc"), 80)
	want := "a\tb\nc"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseStringTrailingNewLineIsPreserved(t *testing.T) {
	got := print(ParseString("a\n"), 80)
	want := "a\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseStringTrimLineEndsDropsTrailingWhitespacePerLine(t *testing.T) {
	got := print(ParseStringTrimLineEnds("a   \nb\t\t\nc"), 80)
	want := "a\nb\nc"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseRawStringIgnoresIndentAroundEmbeddedNewLines(t *testing.T) {
	items := ParseRawString("one\ntwo")
	foundStart, foundFinish := false, false
	for n := items.Head(); n != nil; n = n.Next {
		if sig, ok := n.Item.IsSignal(); ok {
			if sig == printitems.SignalStartIgnoringIndent {
				foundStart = true
			}
			if sig == printitems.SignalFinishIgnoringIndent {
				foundFinish = true
			}
		}
	}
	if !foundStart || !foundFinish {
		t.Fatalf("expected StartIgnoringIndent/FinishIgnoringIndent to bracket a multi-line raw string")
	}

	got := print(items, 80)
	want := "one\ntwo"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseRawStringSingleLineHasNoIgnoreIndentSignals(t *testing.T) {
	items := ParseRawString("one")
	for n := items.Head(); n != nil; n = n.Next {
		if sig, ok := n.Item.IsSignal(); ok && (sig == printitems.SignalStartIgnoringIndent || sig == printitems.SignalFinishIgnoringIndent) {
			t.Fatalf("did not expect ignore-indent signals for single-line text")
		}
	}
}

func TestNewLineGroupIsNoOpOnEmpty(t *testing.T) {
	var empty printitems.PrintItems
	got := NewLineGroup(empty)
	if !got.IsEmpty() {
		t.Fatalf("expected empty result for empty input")
	}
}

func TestSurroundWithNewLinesIndentedIfMultiLineFlatWhenShort(t *testing.T) {
	got := print(SurroundWithNewLinesIndentedIfMultiLine(ParseString("short"), 2), 80)
	want := "short"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// The leading newline here is emitted by SurroundWithNewLines, which wraps
// *outside* WithIndent (true_path: surround_with_new_lines(with_indent(x))
// in the original), so it commits to no indent before StartIndent has run;
// only the newline already embedded inside innerItems falls after
// StartIndent and picks up the indent. Only "two" is indented, not "one".
func TestSurroundWithNewLinesIndentedIfMultiLineIndentsWhenInnerSpansLines(t *testing.T) {
	got := print(SurroundWithNewLinesIndentedIfMultiLine(ParseString("one\ntwo"), 2), 80)
	want := "\none\n  two\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSurroundWithNewLinesIndentedIfMultiLineIsNoOpOnEmpty(t *testing.T) {
	var empty printitems.PrintItems
	got := SurroundWithNewLinesIndentedIfMultiLine(empty, 2)
	if !got.IsEmpty() {
		t.Fatalf("expected empty result for empty input")
	}
}

func TestParseJSLikeCommentLineAddsSlashesAndForcesNoBreaks(t *testing.T) {
	got := print(ParseJSLikeCommentLine(" hello world", true), 80)
	want := "// hello world"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseJSLikeCommentLineWithoutForcedSpaceKeepsOriginalSpacing(t *testing.T) {
	got := print(ParseJSLikeCommentLine("no-space", false), 80)
	want := "//no-space"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseJSLikeCommentBlockWrapsInSlashStarMarkers(t *testing.T) {
	got := print(ParseJSLikeCommentBlock("hello"), 80)
	want := "/*hello*/"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseJSLikeCommentBlockMultiLineIgnoresIndent(t *testing.T) {
	items := ParseJSLikeCommentBlock("one\ntwo")
	foundStart := false
	for n := items.Head(); n != nil; n = n.Next {
		if sig, ok := n.Item.IsSignal(); ok && sig == printitems.SignalStartIgnoringIndent {
			foundStart = true
		}
	}
	if !foundStart {
		t.Fatalf("expected a multi-line block comment to ignore indent")
	}

	got := print(items, 80)
	want := "/*one\ntwo*/"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTextHasDprintIgnoreMatchesWholeWordOnly(t *testing.T) {
	cases := []struct {
		text, search string
		want         bool
	}{
		{"// dprint-ignore", "dprint-ignore", true},
		{"// notdprint-ignore", "dprint-ignore", false},
		{"// dprint-ignoreXYZ", "dprint-ignore", false},
		{"// nothing here", "dprint-ignore", false},
	}
	for _, c := range cases {
		got := TextHasDprintIgnore(c.text, c.search)
		if got != c.want {
			t.Fatalf("TextHasDprintIgnore(%q, %q) = %v, want %v", c.text, c.search, got, c.want)
		}
	}
}
