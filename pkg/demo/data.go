// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package demo seeds a fresh account with a realistic sample data set:
// core values, a mission tree with linked tasks, and a few loose tasks.
// Due dates are relative to load time so the matrix and review views
// have something to show on day one.
package demo

// TaskSeed describes one sample task. DueOffset is in days relative to
// the load time; negative values produce overdue or already-finished
// work.
type TaskSeed struct {
	Title     string
	Urge      bool
	Imp       bool
	Context   string
	DueOffset int
	Done      bool
	Archived  bool
}

// SubmissionSeed is a milestone plus its tasks.
type SubmissionSeed struct {
	Title string
	Tasks []TaskSeed
}

// MissionSeed is a root mission plus its milestones.
type MissionSeed struct {
	Text        string
	Submissions []SubmissionSeed
}

// DataSet is the full sample payload.
type DataSet struct {
	Values   []string
	Missions []MissionSeed
	Loose    []TaskSeed
}

// Default returns the built-in sample data. Two milestones are fully
// completed so the insights views render non-trivial progress.
func Default() DataSet {
	return DataSet{
		Values: []string{
			"Continuous Learning",
			"Discipline & Consistency",
			"Health & Well-being",
		},
		Missions: []MissionSeed{
			{
				Text: "Career Growth & Mastery",
				Submissions: []SubmissionSeed{
					{
						Title: "Master System Design Patterns",
						Tasks: []TaskSeed{
							{Title: "Read 'Clean Architecture' Chapter 5", Imp: true, Context: "@home", DueOffset: -3, Done: true},
							{Title: "Refactor Legacy Module X", Urge: true, Imp: true, Context: "@work", DueOffset: -5, Done: true},
							{Title: "Complete design patterns course", Imp: true, Context: "@computer", DueOffset: -2, Done: true},
							{Title: "Practice with coding katas", Context: "@computer", DueOffset: -1, Done: true},
						},
					},
					{
						Title: "Contribute to Open Source",
						Tasks: []TaskSeed{
							{Title: "Review PR #42 for Team Alpha", Urge: true, Imp: true, Context: "@work", Done: true},
							{Title: "Fix documentation issues", Context: "@computer", DueOffset: 7},
							{Title: "Submit feature proposal", Imp: true, Context: "@computer", DueOffset: 4},
							{Title: "Write unit tests for utils", Urge: true, Context: "@work", DueOffset: 1, Done: true},
							{Title: "Update README badges", Context: "@computer", DueOffset: 6},
						},
					},
				},
			},
			{
				Text: "Health & Vitality",
				Submissions: []SubmissionSeed{
					{
						Title: "Complete a Marathon",
						Tasks: []TaskSeed{
							{Title: "Go for a 5km run", Urge: true, Imp: true, Context: "@anywhere", Done: true},
							{Title: "Buy new running shoes", Context: "@errands", DueOffset: 5},
							{Title: "Research marathon training plans", Imp: true, Context: "@computer", DueOffset: 3, Done: true},
							{Title: "Sign up for local 10K race", Urge: true, Imp: true, Context: "@phone", DueOffset: 2},
						},
					},
					{
						Title: "Clean Diet Implementation",
						Tasks: []TaskSeed{
							{Title: "Buy groceries for meal prep", Urge: true, Context: "@errands", DueOffset: -4, Done: true, Archived: true},
							{Title: "Prepare weekly meal plan", Imp: true, Context: "@home", DueOffset: -3, Done: true},
							{Title: "Research protein sources", Context: "@computer", DueOffset: -2, Done: true},
							{Title: "Clean out pantry", Context: "@home", DueOffset: -5, Done: true, Archived: true},
							{Title: "Schedule nutritionist call", Urge: true, Imp: true, Context: "@phone", DueOffset: -1, Done: true},
						},
					},
					{
						Title: "Improve Sleep Quality",
						Tasks: []TaskSeed{
							{Title: "Set consistent bedtime alarm", Urge: true, Imp: true, Context: "@phone", Done: true},
							{Title: "Buy blackout curtains", Imp: true, Context: "@errands", DueOffset: 5},
							{Title: "No screens 1hr before bed", Urge: true, Imp: true, Context: "@home"},
							{Title: "Track sleep patterns for a week", Context: "@phone", DueOffset: 7},
						},
					},
				},
			},
			{
				Text: "Personal Finance",
				Submissions: []SubmissionSeed{
					{
						Title: "Build Emergency Fund",
						Tasks: []TaskSeed{
							{Title: "Transfer $500 to savings", Urge: true, Imp: true, Context: "@phone", DueOffset: -2, Done: true},
							{Title: "Set up automatic transfer", Imp: true, Context: "@computer", DueOffset: 3},
							{Title: "Review bank account fees", Context: "@computer", DueOffset: 5},
							{Title: "Compare high-yield savings accounts", Imp: true, Context: "@computer", DueOffset: 4, Done: true},
						},
					},
					{
						Title: "Investment Portfolio",
						Tasks: []TaskSeed{
							{Title: "Research Vanguard ETFs", Imp: true, Context: "@computer", DueOffset: 5},
							{Title: "Read 'The Intelligent Investor'", Imp: true, Context: "@home", DueOffset: 14},
							{Title: "Open brokerage account", Urge: true, Imp: true, Context: "@computer", DueOffset: -1, Done: true, Archived: true},
							{Title: "Set monthly investment goal", Imp: true, Context: "@computer", DueOffset: 3},
							{Title: "Review current 401k allocation", Urge: true, Context: "@work", DueOffset: 1},
						},
					},
				},
			},
			{
				Text: "Meaningful Relationships",
				Submissions: []SubmissionSeed{
					{
						Title: "Strengthen Family Bonds",
						Tasks: []TaskSeed{
							{Title: "Call Mom", Imp: true, Context: "@phone"},
							{Title: "Plan family dinner this weekend", Urge: true, Imp: true, Context: "@home", DueOffset: 3, Done: true},
							{Title: "Send birthday card to cousin", Urge: true, Context: "@errands", DueOffset: 2},
							{Title: "Create shared photo album", Context: "@computer", DueOffset: 7},
						},
					},
					{
						Title: "Nurture Friendships",
						Tasks: []TaskSeed{
							{Title: "Schedule coffee with Alex", Imp: true, Context: "@phone", DueOffset: 4},
							{Title: "Reply to group chat", Urge: true, Context: "@phone", Done: true},
							{Title: "Plan game night", Imp: true, Context: "@home", DueOffset: 6},
							{Title: "Send congratulations gift", Urge: true, Imp: true, Context: "@errands", DueOffset: 1},
							{Title: "Catch up call with old friend", Imp: true, Context: "@phone", DueOffset: 5},
						},
					},
					{
						Title: "Professional Network",
						Tasks: []TaskSeed{
							{Title: "Update LinkedIn Profile", Context: "@computer", DueOffset: 7},
							{Title: "Attend industry meetup", Urge: true, Imp: true, Context: "@anywhere", DueOffset: 5},
							{Title: "Follow up with conference contact", Urge: true, Imp: true, Context: "@computer", DueOffset: 2},
							{Title: "Write recommendation for colleague", Imp: true, Context: "@computer", DueOffset: 4},
						},
					},
				},
			},
			{
				Text: "Personal Development",
				Submissions: []SubmissionSeed{
					{
						Title: "Learn New Language",
						Tasks: []TaskSeed{
							{Title: "Complete Duolingo lesson", Urge: true, Context: "@phone", Done: true},
							{Title: "Watch foreign film with subtitles", Context: "@home", DueOffset: 3},
							{Title: "Practice speaking for 15 mins", Urge: true, Imp: true, Context: "@home"},
							{Title: "Find language exchange partner", Imp: true, Context: "@computer", DueOffset: 7},
							{Title: "Order grammar workbook", Context: "@computer", DueOffset: 4},
						},
					},
					{
						Title: "Mindfulness Practice",
						Tasks: []TaskSeed{
							{Title: "10 min morning meditation", Urge: true, Imp: true, Context: "@home"},
							{Title: "Download meditation app", Context: "@phone", DueOffset: -3, Done: true},
							{Title: "Read chapter on mindfulness", Imp: true, Context: "@home", DueOffset: 5},
							{Title: "Try yoga class", Context: "@anywhere", DueOffset: 7},
						},
					},
				},
			},
		},
		Loose: []TaskSeed{
			{Title: "Pay electricity bill", Urge: true, Imp: true, Context: "@computer", DueOffset: -1, Done: true},
			{Title: "Schedule dentist appointment", Urge: true, Context: "@phone", DueOffset: 1},
		},
	}
}
