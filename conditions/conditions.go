// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package conditions implements stock Condition constructors for use by
// parser-side helpers (package parserhelpers and beyond).
package conditions

import "github.com/joscha/dprint/printitems"

// IfAboveWidth returns a Condition whose true path is trueItems, taken when
// the current column is already past width. It's used to offer a possible
// line break in places that would otherwise stay flat — for example
// surroundWithNewLinesIndentedIfMultiLine's single-line path offers a
// PossibleNewLine here so that if the surrounding context has already pushed
// the cursor deep past the indent width, the printer still has somewhere to
// break even though this particular group resolved to "not multi-line".
func IfAboveWidth(width uint8, trueItems printitems.PrintItems) *printitems.Condition {
	return printitems.NewCondition("ifAboveWidth", printitems.ConditionProperties{
		TruePath: trueItems,
		Resolve: func(ctx printitems.ConditionResolverContext) (bool, bool) {
			return ctx.WriterInfo().ColumnNumber > uint32(width), true
		},
	})
}
