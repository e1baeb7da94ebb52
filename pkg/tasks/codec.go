// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tasks implements the task store: CRUD and lifecycle transitions
// for leaf work items, the priority-enum/boolean-pair codec, and the
// cascade helpers invoked by the cascade coordinator.
package tasks

import "strings"

// Status is the client-side task state.
type Status string

const (
	// StatusTodo marks open work.
	StatusTodo Status = "todo"

	// StatusDone marks completed work.
	StatusDone Status = "done"
)

// Backend status enum values.
const (
	backendNotStarted = "NOT_STARTED"
	backendCompleted  = "COMPLETED"
)

// Backend priority enum values. The client never holds these; it always
// works with the decomposed (urge, imp) boolean pair.
const (
	PriorityUrgentImportant       = "URGENT_IMPORTANT"
	PriorityUrgentNotImportant    = "URGENT_NOT_IMPORTANT"
	PriorityNotUrgentImportant    = "NOT_URGENT_IMPORTANT"
	PriorityNotUrgentNotImportant = "NOT_URGENT_NOT_IMPORTANT"
)

// EncodePriority maps the (urge, imp) pair onto the backend enum.
func EncodePriority(urge, imp bool) string {
	switch {
	case urge && imp:
		return PriorityUrgentImportant
	case urge && !imp:
		return PriorityUrgentNotImportant
	case !urge && imp:
		return PriorityNotUrgentImportant
	default:
		return PriorityNotUrgentNotImportant
	}
}

// DecodePriority maps the backend enum back onto the (urge, imp) pair.
// Unknown values decode as (false, false).
func DecodePriority(priority string) (urge, imp bool) {
	urge = priority == PriorityUrgentImportant || priority == PriorityUrgentNotImportant
	imp = priority == PriorityUrgentImportant || priority == PriorityNotUrgentImportant
	return urge, imp
}

// decodeStatus maps the backend status enum to the client status.
// Anything other than COMPLETED is open work.
func decodeStatus(s string) Status {
	if s == backendCompleted {
		return StatusDone
	}
	return StatusTodo
}

// encodeStatus maps the client status to the backend enum.
func encodeStatus(s Status) string {
	if s == StatusDone {
		return backendCompleted
	}
	return backendNotStarted
}

// NormalizeDueDate appends an explicit midnight time component when only
// a date was supplied. The backend requires a datetime, not a bare date.
func NormalizeDueDate(dueDate string) string {
	if dueDate == "" || strings.Contains(dueDate, "T") {
		return dueDate
	}
	return dueDate + "T00:00:00"
}
