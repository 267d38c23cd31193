// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

package serialize

import (
	"os"
	"testing"

	"github.com/joscha/dprint/parserhelpers"
	"github.com/joscha/dprint/printer"
	"github.com/joscha/dprint/printitems"
	"github.com/joscha/dprint/testing_cwd"
)

type Dummy = testing_cwd.Dummy

func TestSerializeFlatText(t *testing.T) {
	var items printitems.PrintItems
	items.PushStr("one")
	items.PushSignal(printitems.SignalSpaceIfNotTrailing)
	items.PushStr("two")

	p := printer.New(items, printer.PrinterOptions{MaxWidth: 80, IndentWidth: 2})
	got := Serialize(p.Print(), 2)
	want := "one two"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// The opening StartIndent must precede the newline whose line it indents,
// and the closing FinishIndent must precede the newline that ends the
// indented region, the same shape writer_test.go's TestIndentAffectsNewLine
// exercises: an Indent marker is decided by a line's *own* NewLine call,
// using whatever indentLevel holds at that exact moment.
func TestSerializeIndentAppliesOnlyToIndentedLines(t *testing.T) {
	var items printitems.PrintItems
	items.PushStr("{")
	items.PushSignal(printitems.SignalStartIndent)
	items.PushSignal(printitems.SignalNewLine)
	items.PushStr("body")
	items.PushSignal(printitems.SignalFinishIndent)
	items.PushSignal(printitems.SignalNewLine)
	items.PushStr("}")

	p := printer.New(items, printer.PrinterOptions{MaxWidth: 80, IndentWidth: 2})
	got := Serialize(p.Print(), 2)
	want := "{\n  body\n}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestSerializeGoldenBlock builds a block with an indented body and a raw,
// indentation-ignoring span embedded inside it, then compares the fully
// serialized text against a fixture file checked out next to this test.
func TestSerializeGoldenBlock(t *testing.T) {
	var items printitems.PrintItems
	items.PushStr("function foo() {")
	items.PushSignal(printitems.SignalStartIndent)
	items.PushSignal(printitems.SignalNewLine)
	items.PushStr("body")
	items.PushSignal(printitems.SignalNewLine)
	items.Extend(parserhelpers.ParseRawString("raw1\nraw2"))
	items.PushSignal(printitems.SignalNewLine)
	items.PushStr("more")
	items.PushSignal(printitems.SignalFinishIndent)
	items.PushSignal(printitems.SignalNewLine)
	items.PushStr("}")

	p := printer.New(items, printer.PrinterOptions{MaxWidth: 80, IndentWidth: 2})
	got := Serialize(p.Print(), 2)

	want, err := os.ReadFile("serialize/testdata/block.golden")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if got != string(want) {
		t.Fatalf("expected %q, got %q", string(want), got)
	}
}
