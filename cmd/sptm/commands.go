// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/cmd/sptm/config"
	"github.com/sptm-app/sptm/pkg/logging"
)

// --- Global Command Variables ---
var (
	logLevel       string
	showArchived   bool
	filterContext  string
	filterInbox    bool
	filterUnlinked bool
	filterSub      string
	taskTitle      string
	taskDue        string
	taskContext    string
	taskUrgent     bool
	taskImportant  bool
	taskMission    string
	taskDesc       string
	deleteForce    bool
	contextIcon    string

	rootCmd = &cobra.Command{
		Use:   "sptm",
		Short: "A cli for strategic planning and task management",
		Long: `sptm organizes long-term missions, their milestones, and the
day-to-day tasks that serve them, against a shared planning backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			level := config.Global.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			log = logging.New(logging.Config{
				Level:   logging.ParseLevel(level),
				LogDir:  config.Global.Logging.Dir,
				Service: "sptm",
				JSON:    config.Global.Logging.JSON,
				Quiet:   true,
			})
			return nil
		},
	}

	// --- Auth ---
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in to the planning backend",
		RunE:  runLogin, // Defined in cmd_auth.go
	}
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE:  runRegister, // Defined in cmd_auth.go
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE:  runLogout, // Defined in cmd_auth.go
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE:  runWhoami, // Defined in cmd_auth.go
	}

	// --- Missions ---
	missionCmd = &cobra.Command{
		Use:   "mission",
		Short: "Manage missions and their milestones",
	}
	missionListCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the mission tree",
		RunE:  runMissionList, // Defined in cmd_mission.go
	}
	missionAddCmd = &cobra.Command{
		Use:   "add [text]",
		Short: "Create a root mission",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMissionAdd, // Defined in cmd_mission.go
	}
	missionSubCmd = &cobra.Command{
		Use:   "sub [mission-id] [title]",
		Short: "Add a milestone under a mission",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runMissionSub, // Defined in cmd_mission.go
	}
	missionRenameCmd = &cobra.Command{
		Use:   "rename [id] [text]",
		Short: "Rename a mission or milestone",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runMissionRename, // Defined in cmd_mission.go
	}
	missionArchiveCmd = &cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a mission or milestone, cascading to its tasks",
		Args:  cobra.ExactArgs(1),
		RunE:  runMissionArchive, // Defined in cmd_mission.go
	}
	missionUnarchiveCmd = &cobra.Command{
		Use:   "unarchive [id]",
		Short: "Restore an archived mission or milestone and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE:  runMissionUnarchive, // Defined in cmd_mission.go
	}
	missionDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Permanently delete a mission or milestone and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE:  runMissionDelete, // Defined in cmd_mission.go
	}

	// --- Guides (visions & core values) ---
	visionCmd = &cobra.Command{
		Use:   "vision",
		Short: "Manage long-term vision statements",
	}
	valueCmd = &cobra.Command{
		Use:   "value",
		Short: "Manage core values",
	}

	// --- Tasks ---
	taskCmd = &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	taskListCmd = &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE:  runTaskList, // Defined in cmd_task.go
	}
	taskAddCmd = &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTaskAdd, // Defined in cmd_task.go
	}
	taskDoneCmd = &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDone, // Defined in cmd_task.go
	}
	taskEditCmd = &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskEdit, // Defined in cmd_task.go
	}
	taskArchiveCmd = &cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskArchive, // Defined in cmd_task.go
	}
	taskUnarchiveCmd = &cobra.Command{
		Use:   "unarchive [id]",
		Short: "Restore an archived task as open",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskUnarchive, // Defined in cmd_task.go
	}
	taskDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Permanently delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDelete, // Defined in cmd_task.go
	}

	// --- Contexts ---
	contextCmd = &cobra.Command{
		Use:   "context",
		Short: "Manage GTD context tags",
	}
	contextListCmd = &cobra.Command{
		Use:   "list",
		Short: "List context tags",
		RunE:  runContextList, // Defined in cmd_task.go
	}
	contextAddCmd = &cobra.Command{
		Use:   "add [name]",
		Short: "Add a custom context tag (names start with @)",
		Args:  cobra.ExactArgs(1),
		RunE:  runContextAdd, // Defined in cmd_task.go
	}
	contextRemoveCmd = &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a context tag",
		Args:  cobra.ExactArgs(1),
		RunE:  runContextRemove, // Defined in cmd_task.go
	}
	contextResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Restore the default context tags",
		RunE:  runContextReset, // Defined in cmd_task.go
	}

	// --- Views ---
	matrixCmd = &cobra.Command{
		Use:   "matrix",
		Short: "Show active tasks on the Eisenhower matrix",
		RunE:  runMatrix, // Defined in cmd_matrix.go
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show per-mission completion",
		RunE:  runStats, // Defined in cmd_stats.go
	}
	reviewCmd = &cobra.Command{
		Use:   "review",
		Short: "Show the weekly review",
		RunE:  runReview, // Defined in cmd_stats.go
	}

	// --- Demo ---
	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Seed the account with sample data",
		RunE:  runDemo, // Defined in cmd_demo.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	rootCmd.AddCommand(missionCmd)
	missionCmd.AddCommand(missionListCmd)
	missionListCmd.Flags().BoolVar(&showArchived, "archived", false, "Include archived records")
	missionCmd.AddCommand(missionAddCmd)
	missionCmd.AddCommand(missionSubCmd)
	missionCmd.AddCommand(missionRenameCmd)
	missionCmd.AddCommand(missionArchiveCmd)
	missionCmd.AddCommand(missionUnarchiveCmd)
	missionCmd.AddCommand(missionDeleteCmd)
	missionDeleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Required to confirm permanent deletion")

	rootCmd.AddCommand(visionCmd)
	rootCmd.AddCommand(valueCmd)
	addGuideCommands(visionCmd, guideVision) // Defined in cmd_mission.go
	addGuideCommands(valueCmd, guideValue)

	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskListCmd.Flags().BoolVar(&showArchived, "archived", false, "Show archived tasks instead of active ones")
	taskListCmd.Flags().StringVar(&filterContext, "context", "", "Only tasks with this context tag")
	taskListCmd.Flags().BoolVar(&filterInbox, "inbox", false, "Only inbox tasks")
	taskListCmd.Flags().BoolVar(&filterUnlinked, "unlinked", false, "Only tasks not linked to a milestone")
	taskListCmd.Flags().StringVar(&filterSub, "sub", "", "Only tasks under this milestone id")
	taskCmd.AddCommand(taskAddCmd)
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskContext, "context", "", "Context tag, e.g. @home")
	taskAddCmd.Flags().BoolVar(&taskUrgent, "urgent", false, "Mark the task urgent")
	taskAddCmd.Flags().BoolVar(&taskImportant, "important", false, "Mark the task important")
	taskAddCmd.Flags().StringVar(&taskMission, "sub", "", "Milestone to link, e.g. submission-12")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Description")
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&taskDue, "due", "", "New due date (YYYY-MM-DD)")
	taskEditCmd.Flags().StringVar(&taskContext, "context", "", "New context tag")
	taskEditCmd.Flags().StringVar(&taskDesc, "desc", "", "New description")
	taskEditCmd.Flags().BoolVar(&taskUrgent, "urgent", false, "Set or clear urgency")
	taskEditCmd.Flags().BoolVar(&taskImportant, "important", false, "Set or clear importance")
	taskCmd.AddCommand(taskArchiveCmd)
	taskCmd.AddCommand(taskUnarchiveCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextAddCmd)
	contextAddCmd.Flags().StringVar(&contextIcon, "icon", "", "Icon shown next to the tag")
	contextCmd.AddCommand(contextRemoveCmd)
	contextCmd.AddCommand(contextResetCmd)

	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(demoCmd)
}
