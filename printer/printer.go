// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package printer implements the speculative, backtracking print driver
// (spec §4): it walks a printitems.PrintItems graph, decides where lines
// actually break, and rewinds to a save point whenever a later decision
// invalidates an earlier one.
package printer

import (
	"fmt"
	"time"

	"github.com/joscha/dprint/arena"
	"github.com/joscha/dprint/collections"
	"github.com/joscha/dprint/diag"
	"github.com/joscha/dprint/printitems"
	"github.com/joscha/dprint/writer"
)

// DebugAssertions gates the printer's internal consistency checks: the
// string-content validation in handleString and the save-point/count
// leak checks run at the end of Print. Off by default would hide real
// bugs, so this stays on; a caller
// that has already validated its input and wants to skip the extra
// bookkeeping can flip it off.
var DebugAssertions = true

// PrinterOptions configures a Printer.
type PrinterOptions struct {
	MaxWidth      uint32
	IndentWidth   uint8
	EnableTracing bool
}

// SavePoint is a full checkpoint of printer + writer state (spec §4.3):
// restoring one rewinds output, cursor position, and the printer's own
// bookkeeping (new-line-group depth, force-no-newlines depth,
// look-ahead tables, next-node stack) to exactly how they were when the
// save point was taken. SavePoints are allocated from an arena so taking
// one is O(1) amortized and never individually freed; the whole arena is
// dropped with the Printer.
type SavePoint struct {
	name                         string
	possibleNewLineSavePoint     *SavePoint
	newLineGroupDepth            uint16
	forceNoNewLinesDepth         uint8
	writerState                  writer.State
	node                         *printitems.Node
	lookAheadConditionSavePoints map[uint64]*SavePoint
	lookAheadInfoSavePoints      *collections.FastCellMap[uint64, *SavePoint]
	nextNodeStack                []*printitems.Node
}

// Name returns the save point's debug label (the signal or condition
// name it was taken for).
func (s *SavePoint) Name() string { return s.name }

type condSavePointPair struct {
	condition *printitems.Condition
	savePoint *SavePoint
}

// Trace records one step of a PrintForTracing run (spec §9): when handling
// a single print node finished (Nanos, monotonic nanoseconds since the
// print started), which print node it was, and which write node was the
// latest one at that point.
type Trace struct {
	Nanos       int64
	PrintNodeID uint64
	WriteNodeID uint64
}

// PrintTracingResult is the return value of PrintForTracing: the final
// output plus the full step-by-step trace, for external visualization.
type PrintTracingResult struct {
	WriteItems []writer.WriteItem
	Traces     []Trace
}

// Printer is the speculative print driver (spec §4). It is not safe for
// concurrent use; one PrintItems graph is driven start to finish by one
// Printer, then discarded.
type Printer struct {
	bump *arena.Arena[SavePoint]

	possibleNewLineSavePoint *SavePoint
	newLineGroupDepth        uint16
	forceNoNewLinesDepth     uint8
	currentNode              *printitems.Node

	writer *writer.Writer

	resolvedConditions map[uint64]*bool
	resolvedInfos      map[uint64]printitems.WriterInfo

	lookAheadConditionSavePoints map[uint64]*SavePoint
	lookAheadInfoSavePoints      *collections.FastCellMap[uint64, *SavePoint]

	nextNodeStack []*printitems.Node

	// conditionsForInfos maps an Info's unique id to the set of
	// conditions that declared it as a dependent info, each paired with
	// the save point to rewind to if that condition's resolution
	// changes once the Info is actually reached.
	conditionsForInfos map[uint64]map[uint64]condSavePointPair

	maxWidth uint32

	skipMovingNext bool

	// resolvingSavePoint, when non-nil, is the save point a condition is
	// currently being re-resolved against in handleInfo; it lets
	// getSavePointForRestoringCondition reuse that save point instead of
	// taking a fresh one when resolving one condition's resolver queries
	// another condition or info.
	resolvingSavePoint *SavePoint

	storedInfoPositions map[uint64][2]uint32

	enableTracing bool
	traces        []Trace
}

// New returns a Printer ready to print the graph rooted at items.
func New(items printitems.PrintItems, options PrinterOptions) *Printer {
	return &Printer{
		bump:                         arena.New[SavePoint](),
		currentNode:                  items.Head(),
		writer:                       writer.New(writer.Options{IndentWidth: options.IndentWidth}),
		resolvedConditions:           make(map[uint64]*bool),
		resolvedInfos:                make(map[uint64]printitems.WriterInfo),
		lookAheadConditionSavePoints: make(map[uint64]*SavePoint),
		lookAheadInfoSavePoints:      collections.New[uint64, *SavePoint](),
		conditionsForInfos:           make(map[uint64]map[uint64]condSavePointPair),
		maxWidth:                     options.MaxWidth,
		storedInfoPositions:          make(map[uint64][2]uint32),
		enableTracing:                options.EnableTracing,
	}
}

// Print drives the graph to completion and returns the final WriteItem
// stream (spec §4, §6). It panics if DebugAssertions is on and the graph
// is ill-formed: a String item holding a tab or newline, an unbalanced
// start/finish pair (new-line group, force-no-newlines, indent or
// ignoring-indent), or a look-ahead save point that was never consumed.
// Those indicate a bug in whatever built the graph.
func (p *Printer) Print() []writer.WriteItem {
	p.innerPrint()
	return p.writer.Items()
}

// PrintForTracing drives the graph to completion like Print, additionally
// recording a Trace per print node handled (spec §9), for external
// analysis of where time went and how the final output was assembled.
func (p *Printer) PrintForTracing() PrintTracingResult {
	p.enableTracing = true
	p.innerPrint()
	return PrintTracingResult{WriteItems: p.writer.Items(), Traces: p.traces}
}

// PrintLenient drives the graph to completion like Print, but converts
// any internal-invariant panic into a diag.Diags entry instead of
// propagating it, returning whatever output had been produced up to the
// point of failure. It exists for hosts (e.g. an editor integration)
// that would rather show stale/partial output than crash on a bug in a
// caller-supplied PrintItems graph. The diagnostic is positioned at the
// writer's current line/column, since that's where output diverged from
// what the caller's graph expected.
func (p *Printer) PrintLenient(d diag.Diags) (items []writer.WriteItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.AddError(p.writer.GetWriterInfo(), fmt.Sprintf("printer: %v", r))
			items = p.writer.Items()
			ok = false
		}
	}()
	p.innerPrint()
	return p.writer.Items(), true
}

func (p *Printer) innerPrint() {
	start := time.Now()
	for p.currentNode != nil {
		node := p.currentNode
		p.handlePrintNode(node)
		if p.enableTracing {
			p.traces = append(p.traces, Trace{
				Nanos:       time.Since(start).Nanoseconds(),
				PrintNodeID: node.ID,
				WriteNodeID: p.writer.GetCurrentNodeID(),
			})
		}

		if p.skipMovingNext {
			p.skipMovingNext = false
		} else if p.currentNode != nil {
			p.currentNode = p.currentNode.Next
		}

		for p.currentNode == nil && len(p.nextNodeStack) > 0 {
			last := len(p.nextNodeStack) - 1
			p.currentNode = p.nextNodeStack[last]
			p.nextNodeStack = p.nextNodeStack[:last]
		}
	}

	if DebugAssertions {
		p.verifyNoLookAheadSavePoints()
		p.ensureCountsZero()
	}
}

func (p *Printer) verifyNoLookAheadSavePoints() {
	if len(p.lookAheadConditionSavePoints) > 0 {
		panic("Debug panic! A look ahead condition save point was never restored to or resolved.")
	}
	if p.lookAheadInfoSavePoints.Len() > 0 {
		panic("Debug panic! A look ahead info save point was never restored to or resolved.")
	}
}

func (p *Printer) ensureCountsZero() {
	if p.newLineGroupDepth != 0 {
		panic("Debug panic! The new line group depth was not zero after printing. This indicates a mismatched start/finish new line group signal pair.")
	}
	if p.forceNoNewLinesDepth != 0 {
		panic("Debug panic! The force no newlines depth was not zero after printing. This indicates a mismatched start/finish force no newlines signal pair.")
	}
	if p.writer.GetIndentationLevel() != 0 {
		panic("Debug panic! The writer indentation level was not zero after printing. This indicates a mismatched start/finish indent signal pair.")
	}
	if p.writer.GetIgnoreIndentCount() != 0 {
		panic("Debug panic! The writer ignore indent count was not zero after printing. This indicates a mismatched start/finish ignoring-indent signal pair.")
	}
}

func (p *Printer) handlePrintNode(node *printitems.Node) {
	item := node.Item
	if str, ok := item.IsString(); ok {
		p.handleString(str)
		return
	}
	if sig, ok := item.IsSignal(); ok {
		p.handleSignal(sig)
		return
	}
	if info, ok := item.IsInfo(); ok {
		p.handleInfo(info)
		return
	}
	if cond, ok := item.IsCondition(); ok {
		p.handleCondition(cond, node.Next)
		return
	}
	if head, ok := item.IsRcPath(); ok {
		p.handleRcPath(head, node.Next)
		return
	}
}

func (p *Printer) handleString(str *printitems.StringContainer) {
	if DebugAssertions {
		validateStringContainer(str.Text)
	}
	if p.possibleNewLineSavePoint != nil && p.allowNewLines() && p.isAboveMaxWidth(str.CharCount) {
		sp := p.possibleNewLineSavePoint
		p.possibleNewLineSavePoint = nil
		p.updateStateToSavePoint(sp, true)
		return
	}
	p.writer.Write(str.Text)
}

func validateStringContainer(text string) {
	for _, r := range text {
		if r == '\t' {
			panic("Debug panic! Found a tab in a string PrintItem. Break it up and send the tab as a separate Tab signal instead.")
		}
		if r == '\n' {
			panic("Debug panic! Found a newline in a string PrintItem. Break it up and send the newline as a separate NewLine signal instead.")
		}
	}
}

func (p *Printer) handleSignal(sig printitems.Signal) {
	switch sig {
	case printitems.SignalNewLine:
		if p.allowNewLines() {
			p.writeNewLine()
		}
	case printitems.SignalTab:
		p.writer.Tab()
	case printitems.SignalExpectNewLine:
		p.writer.MarkExpectNewLine()
		p.possibleNewLineSavePoint = nil
	case printitems.SignalPossibleNewLine:
		if p.allowNewLines() {
			p.markPossibleNewLineIfAble()
		}
	case printitems.SignalSpaceOrNewLine:
		p.handleSpaceOrNewLine()
	case printitems.SignalQueueStartIndent:
		p.writer.QueueIndent()
	case printitems.SignalStartIndent:
		p.writer.StartIndent()
	case printitems.SignalFinishIndent:
		p.writer.FinishIndent()
	case printitems.SignalStartNewLineGroup:
		p.newLineGroupDepth++
	case printitems.SignalFinishNewLineGroup:
		p.newLineGroupDepth--
	case printitems.SignalSingleIndent:
		p.writer.SingleIndent()
	case printitems.SignalStartIgnoringIndent:
		p.writer.StartIgnoringIndent()
	case printitems.SignalFinishIgnoringIndent:
		p.writer.FinishIgnoringIndent()
	case printitems.SignalStartForceNoNewLines:
		p.forceNoNewLinesDepth++
	case printitems.SignalFinishForceNoNewLines:
		p.forceNoNewLinesDepth--
	case printitems.SignalSpaceIfNotTrailing:
		p.writer.SpaceIfNotTrailing()
	}
}

func (p *Printer) handleSpaceOrNewLine() {
	if !p.allowNewLines() {
		p.writer.SpaceIfNotTrailing()
		return
	}

	if !p.isAboveMaxWidth(1) {
		p.markPossibleNewLineIfAble()
		p.writer.SpaceIfNotTrailing()
		return
	}

	sp := p.possibleNewLineSavePoint
	p.possibleNewLineSavePoint = nil

	if sp == nil {
		p.writeNewLine()
		return
	}
	if sp.newLineGroupDepth >= p.newLineGroupDepth {
		p.writeNewLine()
		return
	}
	p.updateStateToSavePoint(sp, true)
}

func (p *Printer) handleInfo(info printitems.Info) {
	id := info.UniqueID()
	p.resolvedInfos[id] = p.getWriterInfo()

	if sp, ok := p.lookAheadInfoSavePoints.Remove(id); ok {
		p.updateStateToSavePoint(sp, false)
		return
	}

	conds, ok := p.conditionsForInfos[id]
	if !ok || len(conds) == 0 {
		return
	}

	pairs := make([]condSavePointPair, 0, len(conds))
	for _, pr := range conds {
		pairs = append(pairs, pr)
	}

	for _, pr := range pairs {
		condition := pr.condition
		sp := pr.savePoint
		condID := condition.UniqueID()

		resolvedPtr, has := p.resolvedConditions[condID]
		if !has || resolvedPtr == nil {
			continue
		}
		previousValue := *resolvedPtr

		p.resolvingSavePoint = sp
		ctx := newResolverContext(p, toItemsWriterInfo(sp.writerState.WriterInfo()))
		newValue, newOK := condition.Resolve(ctx)
		p.resolvingSavePoint = nil

		if !newOK {
			delete(p.resolvedConditions, condID)
			continue
		}
		if newValue != previousValue {
			p.updateStateToSavePoint(sp, false)
			return
		}
	}
}

func (p *Printer) handleCondition(condition *printitems.Condition, nextNode *printitems.Node) {
	condID := condition.UniqueID()

	for _, info := range condition.DependentInfos {
		infoID := info.UniqueID()
		sp := p.getSavePointForRestoringCondition(condition.Name())
		conds, ok := p.conditionsForInfos[infoID]
		if !ok {
			conds = make(map[uint64]condSavePointPair)
			p.conditionsForInfos[infoID] = conds
		}
		conds[condID] = condSavePointPair{condition: condition, savePoint: sp}
	}

	ctx := newResolverContext(p, p.getWriterInfo())
	value, ok := condition.Resolve(ctx)

	if condition.IsStored {
		if ok {
			v := value
			p.resolvedConditions[condID] = &v
		} else {
			p.resolvedConditions[condID] = nil
		}
	}

	if sp, has := p.lookAheadConditionSavePoints[condID]; has && ok {
		delete(p.lookAheadConditionSavePoints, condID)
		p.updateStateToSavePoint(sp, false)
		return
	}

	// An unresolved (ok == false) condition is treated as false: it took
	// a look-ahead save point above so a later resolution can rewind
	// here if it turns out true.
	if ok && value {
		if !condition.TruePath.IsEmpty() {
			p.nextNodeStack = append(p.nextNodeStack, nextNode)
			p.currentNode = condition.TruePath.Head()
			p.skipMovingNext = true
		}
	} else {
		if !condition.FalsePath.IsEmpty() {
			p.nextNodeStack = append(p.nextNodeStack, nextNode)
			p.currentNode = condition.FalsePath.Head()
			p.skipMovingNext = true
		}
	}
}

func (p *Printer) handleRcPath(head *printitems.Node, nextNode *printitems.Node) {
	p.nextNodeStack = append(p.nextNodeStack, nextNode)
	p.currentNode = head
	p.skipMovingNext = true
}

func (p *Printer) allowNewLines() bool {
	return p.forceNoNewLinesDepth == 0
}

func (p *Printer) isAboveMaxWidth(offset uint32) bool {
	return p.writer.GetLineColumn()+offset > p.maxWidth
}

func (p *Printer) getWriterInfo() printitems.WriterInfo {
	return toItemsWriterInfo(p.writer.GetWriterInfo())
}

func toItemsWriterInfo(wi writer.WriterInfo) printitems.WriterInfo {
	return printitems.WriterInfo{
		LineStartIndentLevel:  wi.LineStartIndentLevel,
		LineStartColumnNumber: wi.LineStartColumnNumber,
		LineNumber:            wi.LineNumber,
		ColumnNumber:          wi.ColumnNumber,
		IndentLevel:           wi.IndentLevel,
	}
}

func (p *Printer) markPossibleNewLineIfAble() {
	if p.possibleNewLineSavePoint != nil && p.newLineGroupDepth > p.possibleNewLineSavePoint.newLineGroupDepth {
		return
	}
	var nextNode *printitems.Node
	if p.currentNode != nil {
		nextNode = p.currentNode.Next
	}
	p.possibleNewLineSavePoint = p.createSavePoint("newLine", nextNode)
}

func (p *Printer) getSavePointForRestoringCondition(name string) *SavePoint {
	if p.resolvingSavePoint != nil {
		return p.resolvingSavePoint
	}
	return p.createSavePoint(name, p.currentNode)
}

func (p *Printer) createSavePoint(name string, nextNode *printitems.Node) *SavePoint {
	return p.bump.Alloc(SavePoint{
		name:                         name,
		possibleNewLineSavePoint:     p.possibleNewLineSavePoint,
		newLineGroupDepth:            p.newLineGroupDepth,
		forceNoNewLinesDepth:         p.forceNoNewLinesDepth,
		node:                         nextNode,
		writerState:                  p.writer.GetState(),
		lookAheadConditionSavePoints: cloneCondSavePoints(p.lookAheadConditionSavePoints),
		lookAheadInfoSavePoints:      p.lookAheadInfoSavePoints.CloneMap(),
		nextNodeStack:                cloneNodeStack(p.nextNodeStack),
	})
}

func cloneCondSavePoints(m map[uint64]*SavePoint) map[uint64]*SavePoint {
	out := make(map[uint64]*SavePoint, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneNodeStack(s []*printitems.Node) []*printitems.Node {
	out := make([]*printitems.Node, len(s))
	copy(out, s)
	return out
}

func (p *Printer) writeNewLine() {
	p.writer.NewLine()
	p.possibleNewLineSavePoint = nil
}

// updateStateToSavePoint rewinds the printer and writer to sp. When
// isForNewLine is true, sp was taken as a possible-line-break point: the
// rewind is immediately followed by actually emitting the newline there,
// the way handleSpaceOrNewLine and handleString's overflow paths use it.
func (p *Printer) updateStateToSavePoint(sp *SavePoint, isForNewLine bool) {
	p.writer.SetState(sp.writerState)

	if isForNewLine {
		p.possibleNewLineSavePoint = nil
	} else {
		p.possibleNewLineSavePoint = sp.possibleNewLineSavePoint
	}

	p.currentNode = sp.node
	p.newLineGroupDepth = sp.newLineGroupDepth
	p.forceNoNewLinesDepth = sp.forceNoNewLinesDepth
	p.lookAheadConditionSavePoints = cloneCondSavePoints(sp.lookAheadConditionSavePoints)
	p.lookAheadInfoSavePoints.ReplaceMap(sp.lookAheadInfoSavePoints.CloneMap())
	p.nextNodeStack = cloneNodeStack(sp.nextNodeStack)

	if isForNewLine {
		p.writeNewLine()
	}

	p.skipMovingNext = true
}

// resolverContext implements printitems.ConditionResolverContext (spec
// §4.5, §4.6) against a live Printer. A fresh one is built for every
// Condition.Resolve call since the "current" WriterInfo it exposes
// differs depending on whether the condition is being resolved live (the
// printer's actual current position) or re-resolved from a save point in
// handleInfo (that save point's captured position).
type resolverContext struct {
	printer    *Printer
	writerInfo printitems.WriterInfo
}

func newResolverContext(p *Printer, wi printitems.WriterInfo) *resolverContext {
	return &resolverContext{printer: p, writerInfo: wi}
}

func (c *resolverContext) WriterInfo() printitems.WriterInfo {
	return c.writerInfo
}

// GetResolvedCondition returns the last resolved value of the Condition
// ref refers to. Symmetric to GetResolvedInfo: if that condition hasn't
// been resolved yet (forward reference to a condition appearing later
// in the graph), it registers a look-ahead save point so handleCondition
// rewinds here once that condition is actually reached.
func (c *resolverContext) GetResolvedCondition(ref printitems.ConditionReference) (bool, bool) {
	id := ref.UniqueID()
	if _, has := c.printer.resolvedConditions[id]; !has {
		if _, hasLA := c.printer.lookAheadConditionSavePoints[id]; !hasLA {
			c.printer.lookAheadConditionSavePoints[id] = c.printer.getSavePointForRestoringCondition(ref.Name())
		}
	}
	ptr, ok := c.printer.resolvedConditions[id]
	if !ok || ptr == nil {
		return false, false
	}
	return *ptr, true
}

// GetResolvedInfo returns the geometry Info was last traversed at (spec
// §4.6). If that hasn't happened yet, it registers a look-ahead save
// point so that once the print graph does reach info, the printer
// rewinds here and this condition gets a chance to resolve correctly
// the second time around — the mechanism that lets a condition depend
// on something that appears later in the graph.
func (c *resolverContext) GetResolvedInfo(info printitems.Info) (printitems.WriterInfo, bool) {
	id := info.UniqueID()
	wi, ok := c.printer.resolvedInfos[id]
	if !ok && !c.printer.lookAheadInfoSavePoints.ContainsKey(id) {
		sp := c.printer.getSavePointForRestoringCondition(info.Name())
		c.printer.lookAheadInfoSavePoints.Insert(id, sp)
	}
	return wi, ok
}

func (c *resolverContext) ClearInfo(info printitems.Info) {
	delete(c.printer.resolvedInfos, info.UniqueID())
}

// HasInfoMoved reports whether info's position has changed since the
// last time HasInfoMoved was queried for it (spec §4.6): the first query
// for a given Info always returns false (nothing to compare against
// yet), recording its position as the baseline for the next query.
func (c *resolverContext) HasInfoMoved(info printitems.Info) (bool, bool) {
	wi, ok := c.GetResolvedInfo(info)
	if !ok {
		return false, false
	}
	id := info.UniqueID()
	prev, hadPrev := c.printer.storedInfoPositions[id]
	cur := [2]uint32{wi.LineNumber, wi.ColumnNumber}
	c.printer.storedInfoPositions[id] = cur
	if !hadPrev {
		return false, true
	}
	return prev != cur, true
}
