// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package condresolvers implements stock condition-resolver predicates for
// use inside Condition.Resolve functions.
package condresolvers

import "github.com/joscha/dprint/printitems"

// IsMultipleLines reports whether startInfo and endInfo resolved to
// different line numbers. Returns ok=false ("not yet determined") if either
// Info hasn't been traversed yet, matching the Rust original's
// Option<bool>-returning resolver convention.
func IsMultipleLines(ctx printitems.ConditionResolverContext, startInfo, endInfo printitems.Info) (bool, bool) {
	start, ok := ctx.GetResolvedInfo(startInfo)
	if !ok {
		return false, false
	}
	end, ok := ctx.GetResolvedInfo(endInfo)
	if !ok {
		return false, false
	}
	return start.LineNumber != end.LineNumber, true
}
