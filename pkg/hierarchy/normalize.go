// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package hierarchy flattens the backend's nested mission tree into a
// single addressable collection and keeps the composite identifiers
// consistent across create/update/archive/delete operations.
//
// The backend returns Mission{subMissions: [...]} and speaks bare integer
// ids scoped per entity type. The client stores missions and submissions
// in ONE flat collection, so each record carries a composite string id
// ("mission-7", "submission-22") plus the bare RealID used for API calls.
// The prefix round trip is the most fragile convention in the system:
// whatever strips the prefix for a backend write must be the exact inverse
// of what re-attaches it on read. All of that logic lives here and nowhere
// else.
package hierarchy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the two record kinds sharing the flat collection.
type Kind string

const (
	// KindMission is a root-level, long-term goal.
	KindMission Kind = "mission"

	// KindSubmission is a milestone belonging to exactly one mission. It
	// is the only hierarchy level a task may link to.
	KindSubmission Kind = "submission"
)

const (
	missionPrefix    = "mission-"
	submissionPrefix = "submission-"
)

// ErrUnknownComposite is returned when an id string carries neither known
// prefix and is not a bare number.
var ErrUnknownComposite = errors.New("unknown composite id format")

// Record is one flattened hierarchy entry.
type Record struct {
	// ID is the composite client identifier, e.g. "mission-7".
	ID string

	// RealID is the bare server-assigned id used for all backend calls.
	RealID int64

	// Kind is mission or submission.
	Kind Kind

	// Text is the display content, whitespace/quote-normalized.
	Text string

	// ParentID is the owning mission's composite id, or "" for roots.
	ParentID string

	// IsArchived hides the record from active views.
	IsArchived bool

	// CompletedAt is the archive timestamp (RFC3339), "" when unset.
	CompletedAt string
}

// RawMission is the backend's nested mission payload.
type RawMission struct {
	ID          int64           `json:"id"`
	Content     string          `json:"content"`
	Archived    bool            `json:"archived"`
	CompletedAt string          `json:"completedAt"`
	SubMissions []RawSubmission `json:"subMissions"`
}

// RawSubmission is the backend's nested submission payload.
type RawSubmission struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Archived    bool   `json:"archived"`
	CompletedAt string `json:"completedAt"`
}

// CompositeID forms the composite client id for a server id.
func CompositeID(kind Kind, realID int64) string {
	if kind == KindSubmission {
		return submissionPrefix + strconv.FormatInt(realID, 10)
	}
	return missionPrefix + strconv.FormatInt(realID, 10)
}

// ToRealID strips whichever known prefix is present and returns the bare
// server id. A bare numeric string passes through unchanged. Anything
// else fails with ErrUnknownComposite.
func ToRealID(compositeID string) (int64, error) {
	s := compositeID
	switch {
	case strings.HasPrefix(s, submissionPrefix):
		s = strings.TrimPrefix(s, submissionPrefix)
	case strings.HasPrefix(s, missionPrefix):
		s = strings.TrimPrefix(s, missionPrefix)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownComposite, compositeID)
	}
	return n, nil
}

// KindOf reports the record kind encoded in a composite id. The second
// return is false for bare numbers and unknown formats.
func KindOf(compositeID string) (Kind, bool) {
	switch {
	case strings.HasPrefix(compositeID, submissionPrefix):
		return KindSubmission, true
	case strings.HasPrefix(compositeID, missionPrefix):
		return KindMission, true
	default:
		return "", false
	}
}

// CleanText normalizes server content for display: strips one surrounding
// pair of double quotes, unescapes literal \n sequences (a legacy server
// encoding artifact) and trims whitespace. Untreated text renders visible
// escape artifacts, so this is a required step of normalization.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	return strings.TrimSpace(s)
}

// Normalize converts the nested server payload into the flat collection.
// For each raw mission it emits one mission record followed by one
// submission record per child, parent-linked through the mission's
// composite id. The input is not mutated. An absent subMissions list is
// treated as empty; null content/title normalizes to "".
func Normalize(serverMissions []RawMission) []Record {
	flat := make([]Record, 0, len(serverMissions))
	for _, m := range serverMissions {
		rootID := CompositeID(KindMission, m.ID)
		flat = append(flat, Record{
			ID:          rootID,
			RealID:      m.ID,
			Kind:        KindMission,
			Text:        CleanText(m.Content),
			ParentID:    "",
			IsArchived:  m.Archived,
			CompletedAt: m.CompletedAt,
		})
		for _, sub := range m.SubMissions {
			flat = append(flat, Record{
				ID:          CompositeID(KindSubmission, sub.ID),
				RealID:      sub.ID,
				Kind:        KindSubmission,
				Text:        CleanText(sub.Title),
				ParentID:    rootID,
				IsArchived:  sub.Archived,
				CompletedAt: sub.CompletedAt,
			})
		}
	}
	return flat
}

// RootMissions filters the flat collection down to parentless records.
func RootMissions(all []Record) []Record {
	var roots []Record
	for _, r := range all {
		if r.ParentID == "" {
			roots = append(roots, r)
		}
	}
	return roots
}

// SubmissionsOf filters the flat collection down to the children of one
// mission, identified by its composite id.
func SubmissionsOf(all []Record, missionCompositeID string) []Record {
	var subs []Record
	for _, r := range all {
		if r.ParentID == missionCompositeID {
			subs = append(subs, r)
		}
	}
	return subs
}
