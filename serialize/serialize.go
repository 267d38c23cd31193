// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package serialize turns a printer's []writer.WriteItem stream into the
// final text a host writes out (spec §6's "trivial downstream writer"). It
// is deliberately thin: every layout decision has already been made by
// package printer, so this package only needs to interpret a handful of
// cursor instructions.
package serialize

import (
	"bytes"

	"github.com/joscha/dprint/indentedwriter"
	"github.com/joscha/dprint/writer"
)

// Serialize renders items to a string. indentWidth must be the same value
// passed to the printer.PrinterOptions that produced items, since a
// WriteItem's Indent carries a level count, not a space count.
//
// package writer's NewLine only emits an Indent item for the line it starts
// when its level is nonzero and it isn't inside an ignored-indent span (an
// optimization: most lines don't need one), so a line with no Indent item
// of its own means
// "back to no indent" rather than "keep whatever the previous line had".
// Serialize mirrors that by resetting to base on every NewLine and only
// picking up indentation again if an Indent item for the new line follows.
func Serialize(items []writer.WriteItem, indentWidth uint8) string {
	var buf bytes.Buffer
	base := indentedwriter.IndentedWriterOn(&buf)
	current := base
	ignoringDepth := 0
	var ignoredStack []*indentedwriter.IndentedWriter

	for _, it := range items {
		switch it.Kind {
		case writer.KindText:
			current.Write([]byte(it.Text))
		case writer.KindTab:
			current.Write([]byte{'\t'})
		case writer.KindSpace:
			current.Write([]byte{' '})
		case writer.KindNewLine:
			current.Write([]byte{'\n'})
			if ignoringDepth == 0 {
				current = base
			}
		case writer.KindIndent:
			if ignoringDepth == 0 {
				// Always relative to base, not current, so repeated Indent
				// items for different levels never drift from compounding.
				current = base.Indent(int(it.Level) * int(indentWidth))
			}
		case writer.KindStartIgnoringIndent:
			ignoringDepth++
			ignoredStack = append(ignoredStack, current)
			current = current.NoIndent()
		case writer.KindFinishIgnoringIndent:
			ignoringDepth--
			if n := len(ignoredStack); n > 0 {
				current = ignoredStack[n-1]
				ignoredStack = ignoredStack[:n-1]
			}
		}
	}

	return buf.String()
}
