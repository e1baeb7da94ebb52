// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompositeIDRoundTrip verifies prefix attach/strip are exact
// inverses for both kinds.
func TestCompositeIDRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 7, 22, 123456789} {
		got, err := ToRealID(CompositeID(KindMission, n))
		require.NoError(t, err)
		assert.Equal(t, n, got)

		got, err = ToRealID(CompositeID(KindSubmission, n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestToRealIDBareNumber(t *testing.T) {
	got, err := ToRealID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestToRealIDUnknownFormat(t *testing.T) {
	_, err := ToRealID("task-9")
	assert.ErrorIs(t, err, ErrUnknownComposite)

	_, err = ToRealID("")
	assert.ErrorIs(t, err, ErrUnknownComposite)
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf("mission-3")
	assert.True(t, ok)
	assert.Equal(t, KindMission, kind)

	kind, ok = KindOf("submission-3")
	assert.True(t, ok)
	assert.Equal(t, KindSubmission, kind)

	_, ok = KindOf("3")
	assert.False(t, ok)
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		``:                      "",
		`"quoted"`:              "quoted",
		`  padded  `:            "padded",
		`"line one\nline two"`:  "line one\nline two",
		`no quotes`:             "no quotes",
		`"unbalanced`:           "unbalanced",
		`trailing"`:             "trailing",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanText(in), "input %q", in)
	}
}

// TestNormalizeCompleteness verifies k missions with si submissions each
// yield exactly k + sum(si) flat records, exactly k of them parentless.
func TestNormalizeCompleteness(t *testing.T) {
	raw := []RawMission{
		{
			ID:      7,
			Content: `"Career Growth"`,
			SubMissions: []RawSubmission{
				{ID: 22, Title: "Master System Design"},
				{ID: 23, Title: "Contribute to Open Source"},
			},
		},
		{ID: 8, Content: "Health"},
		{
			ID:          9,
			Content:     "Finance",
			SubMissions: []RawSubmission{{ID: 30, Title: "Emergency Fund"}},
		},
	}

	flat := Normalize(raw)
	require.Len(t, flat, 6)

	roots := RootMissions(flat)
	require.Len(t, roots, 3)
	for _, r := range roots {
		assert.Equal(t, KindMission, r.Kind)
		assert.Empty(t, r.ParentID)
	}

	subs := SubmissionsOf(flat, "mission-7")
	require.Len(t, subs, 2)
	assert.Equal(t, "submission-22", subs[0].ID)
	assert.Equal(t, int64(22), subs[0].RealID)
	assert.Equal(t, "mission-7", subs[0].ParentID)

	// Quote stripping applied during normalization.
	assert.Equal(t, "Career Growth", flat[0].Text)
}

// TestNormalizeMissingSubMissions verifies an absent child list is
// treated as empty, never a failure.
func TestNormalizeMissingSubMissions(t *testing.T) {
	flat := Normalize([]RawMission{{ID: 1, Content: "solo", SubMissions: nil}})
	require.Len(t, flat, 1)
	assert.Empty(t, SubmissionsOf(flat, "mission-1"))
}

// TestNormalizeNullText verifies null content/title normalize to "".
func TestNormalizeNullText(t *testing.T) {
	flat := Normalize([]RawMission{{
		ID:          1,
		SubMissions: []RawSubmission{{ID: 2}},
	}})
	require.Len(t, flat, 2)
	assert.Empty(t, flat[0].Text)
	assert.Empty(t, flat[1].Text)
}

// TestNormalizeCarriesLifecycleFlags verifies archive state survives
// flattening.
func TestNormalizeCarriesLifecycleFlags(t *testing.T) {
	flat := Normalize([]RawMission{{
		ID:          4,
		Content:     "done goal",
		Archived:    true,
		CompletedAt: "2026-08-30T12:00:00Z",
		SubMissions: []RawSubmission{{ID: 5, Title: "sub", Archived: true, CompletedAt: "2026-08-30T12:00:00Z"}},
	}})
	require.Len(t, flat, 2)
	for _, r := range flat {
		assert.True(t, r.IsArchived)
		assert.Equal(t, "2026-08-30T12:00:00Z", r.CompletedAt)
	}
}

// TestNormalizeDoesNotMutateInput guards against accidental in-place
// edits of the server payload.
func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := []RawMission{{ID: 1, Content: `"x"`}}
	Normalize(raw)
	assert.Equal(t, `"x"`, raw[0].Content)
}
