// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

package conditions

import (
	"testing"

	"github.com/joscha/dprint/printitems"
)

type fakeContext struct {
	column uint32
}

func (f *fakeContext) GetResolvedCondition(printitems.ConditionReference) (bool, bool) { return false, false }
func (f *fakeContext) GetResolvedInfo(printitems.Info) (printitems.WriterInfo, bool) {
	return printitems.WriterInfo{}, false
}
func (f *fakeContext) ClearInfo(printitems.Info)                        {}
func (f *fakeContext) HasInfoMoved(printitems.Info) (bool, bool)        { return false, false }
func (f *fakeContext) WriterInfo() printitems.WriterInfo {
	return printitems.WriterInfo{ColumnNumber: f.column}
}

func TestIfAboveWidthFalseWhenAtOrBelowWidth(t *testing.T) {
	cond := IfAboveWidth(40, itemsFromStr("[break]"))
	value, ok := cond.Resolve(&fakeContext{column: 40})
	if !ok || value {
		t.Fatalf("expected (false, true) at exactly the width, got (%v, %v)", value, ok)
	}
}

func TestIfAboveWidthTrueWhenPastWidth(t *testing.T) {
	cond := IfAboveWidth(40, itemsFromStr("[break]"))
	value, ok := cond.Resolve(&fakeContext{column: 41})
	if !ok || !value {
		t.Fatalf("expected (true, true) past the width, got (%v, %v)", value, ok)
	}
}

func itemsFromStr(s string) printitems.PrintItems {
	var items printitems.PrintItems
	items.PushStr(s)
	return items
}
