// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

package printitems

import "testing"

func TestPushAndExtend(t *testing.T) {
	var items PrintItems
	if !items.IsEmpty() {
		t.Fatalf("fresh PrintItems should be empty")
	}

	items.PushStr("foo")
	items.PushSignal(SignalSpaceOrNewLine)
	items.PushStr("bar")

	var tail PrintItems
	tail.PushStr("baz")
	items.Extend(tail)

	var got []string
	for n := items.Head(); n != nil; n = n.Next {
		if s, ok := n.Item.IsString(); ok {
			got = append(got, s.Text)
		} else if sig, ok := n.Item.IsSignal(); ok {
			got = append(got, sig.String())
		}
	}

	want := []string{"foo", "SpaceOrNewLine", "bar", "baz"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestExtendOntoEmpty(t *testing.T) {
	var items PrintItems
	var other PrintItems
	other.PushStr("x")
	items.Extend(other)

	if items.Head() == nil {
		t.Fatalf("expected Extend onto an empty builder to adopt other's chain")
	}
	if s, ok := items.Head().Item.IsString(); !ok || s.Text != "x" {
		t.Fatalf("expected head to be the string %q", "x")
	}
}

func TestExtendEmptyOntoNonEmptyIsNoOp(t *testing.T) {
	var items PrintItems
	items.PushStr("x")
	var empty PrintItems
	items.Extend(empty)

	count := 0
	for n := items.Head(); n != nil; n = n.Next {
		count++
	}
	if count != 1 {
		t.Fatalf("expected extending with an empty PrintItems to be a no-op, got %d items", count)
	}
}

func TestStringItemCharCount(t *testing.T) {
	it := NewStringItem("héllo")
	s, ok := it.IsString()
	if !ok {
		t.Fatalf("expected a String item")
	}
	if s.CharCount != 5 {
		t.Fatalf("expected CharCount 5 (rune count, not byte count), got %d", s.CharCount)
	}
}

func TestInfoAndConditionUniqueIDs(t *testing.T) {
	i1 := NewInfo("a")
	i2 := NewInfo("a")
	if i1.UniqueID() == i2.UniqueID() {
		t.Fatalf("two Infos with the same name must still have distinct unique ids")
	}
	if i1.Name() != "a" || i2.Name() != "a" {
		t.Fatalf("expected both Infos to report name 'a'")
	}

	c := NewCondition("cond", ConditionProperties{})
	if c.Reference().UniqueID() != c.UniqueID() {
		t.Fatalf("Condition.Reference().UniqueID() should match Condition.UniqueID()")
	}
}

func TestIntoRcPathSharing(t *testing.T) {
	var inner PrintItems
	inner.PushStr("shared")
	path := inner.IntoRcPath()

	var a PrintItems
	a.PushPath(path)
	var b PrintItems
	b.PushPath(path)

	aHead, ok := a.Head().Item.IsRcPath()
	if !ok {
		t.Fatalf("expected a's head to be an RcPath item")
	}
	bHead, ok := b.Head().Item.IsRcPath()
	if !ok {
		t.Fatalf("expected b's head to be an RcPath item")
	}
	if aHead != bHead {
		t.Fatalf("expected both RcPath items to reference the same shared node")
	}
}
