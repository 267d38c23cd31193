// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package printitems implements the instruction set that parsers emit and
// the Printer (see package printer) consumes.
//
// A program is a singly-linked list of Nodes. Condition and RcPath items
// additionally reference subordinate subgraphs, so the overall structure is
// a DAG rather than a strict tree: an RcPath may be shared by more than one
// parent, letting a parser build a subtree once and reference it from
// several places (e.g. a condition's true and false arms sharing a common
// tail).
package printitems

import (
	"sync/atomic"

	"github.com/joscha/dprint/intern"
)

// nextID is the process-wide monotonic counter backing Info and Condition
// unique ids. The Rust original (utils/counter_cell.rs) uses an UnsafeCell
// because each print is single-threaded there; Go's `go test ./...` runs
// multiple packages' tests concurrently within one process, so the Go port
// needs an actual atomic counter even though any single Printer only ever
// touches it from one goroutine.
var nextID atomic.Uint64

func newID() uint64 {
	return nextID.Add(1)
}

// Signal is a state-machine instruction with no payload beyond its kind.
type Signal int

const (
	SignalTab Signal = iota
	SignalNewLine
	SignalSpaceOrNewLine
	SignalPossibleNewLine
	SignalExpectNewLine
	SignalSpaceIfNotTrailing
	SignalSingleIndent
	SignalQueueStartIndent
	SignalStartIndent
	SignalFinishIndent
	SignalStartNewLineGroup
	SignalFinishNewLineGroup
	SignalStartForceNoNewLines
	SignalFinishForceNoNewLines
	SignalStartIgnoringIndent
	SignalFinishIgnoringIndent
)

func (s Signal) String() string {
	switch s {
	case SignalTab:
		return "Tab"
	case SignalNewLine:
		return "NewLine"
	case SignalSpaceOrNewLine:
		return "SpaceOrNewLine"
	case SignalPossibleNewLine:
		return "PossibleNewLine"
	case SignalExpectNewLine:
		return "ExpectNewLine"
	case SignalSpaceIfNotTrailing:
		return "SpaceIfNotTrailing"
	case SignalSingleIndent:
		return "SingleIndent"
	case SignalQueueStartIndent:
		return "QueueStartIndent"
	case SignalStartIndent:
		return "StartIndent"
	case SignalFinishIndent:
		return "FinishIndent"
	case SignalStartNewLineGroup:
		return "StartNewLineGroup"
	case SignalFinishNewLineGroup:
		return "FinishNewLineGroup"
	case SignalStartForceNoNewLines:
		return "StartForceNoNewLines"
	case SignalFinishForceNoNewLines:
		return "FinishForceNoNewLines"
	case SignalStartIgnoringIndent:
		return "StartIgnoringIndent"
	case SignalFinishIgnoringIndent:
		return "FinishIgnoringIndent"
	default:
		return "Signal(?)"
	}
}

// StringContainer is the payload of a String item: a text run that must
// contain no newline and no tab, plus its precomputed rune count so the
// printer never has to re-scan it to know how much column width it costs.
type StringContainer struct {
	Text      string
	CharCount uint32
}

func newStringContainer(text string) *StringContainer {
	return &StringContainer{Text: text, CharCount: uint32(len([]rune(text)))}
}

// Info is a named, resolvable position marker. Once the printer traverses an
// Info item, its resolved WriterInfo (see package writer) becomes available
// to condition resolvers and to has_info_moved queries.
type Info struct {
	id   uint64
	name intern.Symbol
}

// NewInfo returns a fresh Info with a process-wide unique id and the given
// debug name. Names are interned (see package intern) because parsers that
// synthesize names dynamically (e.g. "ifAboveWidth#1234" per call site) would
// otherwise duplicate many short-lived strings across thousands of
// save-point clones.
func NewInfo(name string) Info {
	return Info{id: newID(), name: intern.InternString(name)}
}

// UniqueID returns the process-wide unique id of this Info.
func (i Info) UniqueID() uint64 { return i.id }

// Name returns this Info's debug name.
func (i Info) Name() string { return i.name.String() }

// ConditionReference identifies a Condition without retaining a pointer to
// its resolver or paths — the shape a resolver's context hands back for
// get_resolved_condition-style queries.
type ConditionReference struct {
	id   uint64
	name intern.Symbol
}

// UniqueID returns the process-wide unique id of the referenced Condition.
func (c ConditionReference) UniqueID() uint64 { return c.id }

// Name returns the referenced Condition's debug name.
func (c ConditionReference) Name() string { return c.name.String() }

// ConditionResolver decides which arm of a Condition is taken. It receives a
// ConditionResolverContext (an interface declared below and implemented in
// package printer, which avoids an import cycle) and returns (value, ok): ok is false to mean "not yet determined; retry
// when more state is known", matching the Rust original's Option<bool>.
type ConditionResolver func(ctx ConditionResolverContext) (value bool, ok bool)

// ConditionResolverContext is the read-only view a resolver gets of printer
// state. It is implemented by package printer's resolver context, which
// wraps a live Printer; printitems only needs the
// interface shape to declare ConditionResolver without importing printer
// (which imports printitems).
type ConditionResolverContext interface {
	GetResolvedCondition(ref ConditionReference) (value bool, ok bool)
	GetResolvedInfo(info Info) (WriterInfo, bool)
	ClearInfo(info Info)
	HasInfoMoved(info Info) (moved bool, ok bool)
	// WriterInfo returns the geometry at the point this condition (or the
	// save point a look-ahead resolver was anchored to) is being resolved.
	WriterInfo() WriterInfo
}

// WriterInfo is the geometry snapshot exposed to resolvers: indentation
// level, line and column number, and the indent level/column the current
// line started at (spec §3). Package writer has its own WriterInfo type with
// the same shape plus a few writer-only conveniences (it also implements
// position.Position, see that package); package printer, which imports both,
// converts between the two. Keeping this copy here lets printitems declare
// ConditionResolverContext without importing package writer, which would
// otherwise have no reason to depend on the instruction model at all.
type WriterInfo struct {
	LineStartIndentLevel  uint32
	LineStartColumnNumber uint32
	LineNumber            uint32
	ColumnNumber          uint32
	IndentLevel           uint32
}

// Condition is a branch whose taken arm is chosen at print time by Resolve.
type Condition struct {
	id             uint64
	name           intern.Symbol
	Resolve        ConditionResolver
	TruePath       PrintItems
	FalsePath      PrintItems
	DependentInfos []Info
	IsStored       bool
}

// ConditionProperties configures a new Condition (mirrors the Rust
// original's ConditionProperties struct literal pattern).
type ConditionProperties struct {
	TruePath  PrintItems
	FalsePath PrintItems
	Resolve   ConditionResolver
	IsStored  bool
}

// NewCondition returns a fresh Condition with no dependent infos.
func NewCondition(name string, props ConditionProperties) *Condition {
	return &Condition{
		id:        newID(),
		name:      intern.InternString(name),
		Resolve:   props.Resolve,
		TruePath:  props.TruePath,
		FalsePath: props.FalsePath,
		IsStored:  props.IsStored,
	}
}

// NewConditionWithDependentInfos returns a fresh Condition that additionally
// declares the set of Infos whose resolved position affects its outcome.
// Such a Condition is stored (IsStored is set), so the printer can compare
// a re-resolution against its previous value when one of those Infos is
// reached.
func NewConditionWithDependentInfos(name string, props ConditionProperties, dependentInfos []Info) *Condition {
	c := NewCondition(name, props)
	c.DependentInfos = dependentInfos
	c.IsStored = true
	return c
}

// UniqueID returns the process-wide unique id of this Condition.
func (c *Condition) UniqueID() uint64 { return c.id }

// Name returns this Condition's debug name.
func (c *Condition) Name() string { return c.name.String() }

// Reference returns a ConditionReference for this Condition, suitable for
// passing to a ConditionResolverContext. It also marks the Condition as
// stored, so the printer keeps its resolved value for that lookup.
func (c *Condition) Reference() ConditionReference {
	c.IsStored = true
	return ConditionReference{id: c.id, name: c.name}
}

// itemKind tags which field of Item is populated.
type itemKind int

const (
	kindString itemKind = iota
	kindSignal
	kindInfo
	kindCondition
	kindRcPath
)

// Item is a single tagged-variant instruction (PrintItem in spec.md's
// vocabulary). Exactly one of its payload fields is meaningful, selected by
// kind; callers never construct an Item directly, only through PrintItems's
// Push* methods or the package-level New* constructors.
type Item struct {
	kind      itemKind
	str       *StringContainer
	signal    Signal
	info      Info
	condition *Condition
	rcPath    *Node
}

// NewStringItem returns a String item. text must contain no '\n' or '\t' —
// callers that might have either should route text through
// parserhelpers.ParseString instead, which splits it into String/NewLine/Tab
// items for them.
func NewStringItem(text string) Item {
	return Item{kind: kindString, str: newStringContainer(text)}
}

// NewSignalItem returns a signal item.
func NewSignalItem(s Signal) Item {
	return Item{kind: kindSignal, signal: s}
}

// NewInfoItem returns an Info item.
func NewInfoItem(info Info) Item {
	return Item{kind: kindInfo, info: info}
}

// NewConditionItem returns a Condition item.
func NewConditionItem(c *Condition) Item {
	return Item{kind: kindCondition, condition: c}
}

// NewRcPathItem returns an RcPath item referencing the head of a shared
// subgraph.
func NewRcPathItem(head *Node) Item {
	return Item{kind: kindRcPath, rcPath: head}
}

// IsString reports whether this item is a String and, if so, returns its
// payload.
func (it Item) IsString() (*StringContainer, bool) {
	if it.kind != kindString {
		return nil, false
	}
	return it.str, true
}

// IsSignal reports whether this item is a Signal and, if so, returns it.
func (it Item) IsSignal() (Signal, bool) {
	if it.kind != kindSignal {
		return 0, false
	}
	return it.signal, true
}

// IsInfo reports whether this item is an Info and, if so, returns it.
func (it Item) IsInfo() (Info, bool) {
	if it.kind != kindInfo {
		return Info{}, false
	}
	return it.info, true
}

// IsCondition reports whether this item is a Condition and, if so, returns
// it.
func (it Item) IsCondition() (*Condition, bool) {
	if it.kind != kindCondition {
		return nil, false
	}
	return it.condition, true
}

// IsRcPath reports whether this item is an RcPath and, if so, returns the
// head of the shared subgraph.
func (it Item) IsRcPath() (*Node, bool) {
	if it.kind != kindRcPath {
		return nil, false
	}
	return it.rcPath, true
}

// Node is an instruction together with its successor. A program is a
// singly-linked list of Nodes; Condition and RcPath items additionally
// reference subordinate subgraphs, making the overall structure a DAG.
type Node struct {
	// ID is a monotonic id assigned at construction time, used only to label
	// trace records (see package printer's optional tracing support); it has
	// no bearing on print semantics.
	ID   uint64
	Item Item
	Next *Node
}

// Path is a pointer to the head of a Node chain — what spec.md calls a
// PrintItemPath.
type Path = *Node

// PrintItems is the builder parsers use to assemble a Node chain. The zero
// value is ready to use.
type PrintItems struct {
	head *Node
	tail *Node
}

// IsEmpty reports whether no items have been pushed yet.
func (p *PrintItems) IsEmpty() bool {
	return p.head == nil
}

// push appends a single Item, linking it after the current tail.
func (p *PrintItems) push(item Item) {
	node := &Node{ID: newID(), Item: item}
	if p.head == nil {
		p.head = node
		p.tail = node
		return
	}
	p.tail.Next = node
	p.tail = node
}

// PushStr appends a String item.
func (p *PrintItems) PushStr(text string) {
	p.push(NewStringItem(text))
}

// PushSignal appends a signal item.
func (p *PrintItems) PushSignal(s Signal) {
	p.push(NewSignalItem(s))
}

// PushInfo appends an Info item.
func (p *PrintItems) PushInfo(info Info) {
	p.push(NewInfoItem(info))
}

// PushCondition appends a Condition item.
func (p *PrintItems) PushCondition(c *Condition) {
	p.push(NewConditionItem(c))
}

// PushPath appends an RcPath item referencing head.
func (p *PrintItems) PushPath(head *Node) {
	p.push(NewRcPathItem(head))
}

// Extend appends the whole of other after the current tail. other must not
// be reused afterward by the caller as a separate, independently-growable
// builder once it has been extended into another (its nodes are now shared);
// this mirrors the Rust original's ownership-moving `items.extend(other)`.
func (p *PrintItems) Extend(other PrintItems) {
	if other.head == nil {
		return
	}
	if p.head == nil {
		p.head = other.head
		p.tail = other.tail
		return
	}
	p.tail.Next = other.head
	p.tail = other.tail
}

// Head returns the first Node of the built chain, or nil if empty.
func (p *PrintItems) Head() *Node {
	return p.head
}

// IntoRcPath finalizes p and returns a Path usable from multiple parents via
// NewRcPathItem/PushPath. After calling IntoRcPath, p should not be mutated
// further — the returned Path aliases its nodes.
func (p *PrintItems) IntoRcPath() Path {
	return p.head
}
