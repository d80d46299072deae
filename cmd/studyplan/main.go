package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tom7523326/studyplan/internal/db"
	"github.com/tom7523326/studyplan/internal/export"
	"github.com/tom7523326/studyplan/internal/mcp"
	"github.com/tom7523326/studyplan/internal/remind"
	"github.com/tom7523326/studyplan/internal/server"
	"github.com/tom7523326/studyplan/internal/stats"
	"github.com/tom7523326/studyplan/internal/store"
	"github.com/tom7523326/studyplan/internal/ui"
	"github.com/tom7523326/studyplan/pkg/models"
)

var (
	dataPath  string
	exportDir string
)

func main() {
	flag.StringVar(&dataPath, "data-path", ".studyplan/studyplan.db", "Path to database file")
	flag.StringVar(&exportDir, "export-dir", ".studyplan/exports", "Directory for exported files")
	flag.Parse()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	var err error
	switch command {
	case "today", "list":
		err = runList(args)
	case "add":
		err = runAdd(args)
	case "timer":
		err = runTimer(args)
	case "stats":
		err = runStats(args)
	case "export":
		err = runExport(args)
	case "import":
		err = runImport(args)
	case "remind":
		err = runRemind(args)
	case "delete":
		err = runDelete(args)
	case "clear":
		err = runClear(args)
	case "web":
		err = runWeb(args)
	case "mcp":
		err = runMCP(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*store.Store, *db.DB, error) {
	database, err := db.Open(dataPath)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(ctx, database, store.DefaultSeedConfig())
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return s, database, nil
}

func runList(args []string) error {
	listFlags := flag.NewFlagSet("list", flag.ContinueOnError)
	date := listFlags.String("date", "", "Day to list (YYYY-MM-DD, defaults to today)")
	all := listFlags.Bool("all", false, "List every task")
	if err := listFlags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var tasks []models.Task
	if *all {
		tasks = s.All()
	} else {
		day := time.Now()
		if *date != "" {
			day, err = time.ParseInLocation("2006-01-02", *date, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
		}
		tasks = s.TasksFor(day)
	}

	fmt.Printf("%-36s %-12s %-25s %-8s %-8s %-12s\n", "ID", "DATE", "NAME", "EXPECT", "ACTUAL", "STATUS")
	fmt.Println("-----------------------------------------------------------------------------------------------------")
	for _, t := range tasks {
		fmt.Printf("%-36s %-12s %-25s %-8d %-8d %-12s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Name, t.ExpectedMinutes, t.ActualMinutes, t.Status)
	}
	return nil
}

func runAdd(args []string) error {
	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	name := addFlags.String("name", "", "Task name")
	category := addFlags.String("category", "", "Subject (chinese, math, english, piano)")
	minutes := addFlags.Int("minutes", 0, "Expected duration in minutes")
	startDate := addFlags.String("start", "", "Start date (YYYY-MM-DD, defaults to today)")
	endDate := addFlags.String("end", "", "End date (YYYY-MM-DD, defaults to start)")
	if err := addFlags.Parse(args); err != nil {
		return err
	}

	cat, err := models.ParseTaskCategory(*category)
	if err != nil {
		return err
	}

	start := time.Now()
	if *startDate != "" {
		start, err = time.ParseInLocation("2006-01-02", *startDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	end := start
	if *endDate != "" {
		end, err = time.ParseInLocation("2006-01-02", *endDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}

	tasks, err := models.NewTasks(*name, cat, *minutes, start, end)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	for _, t := range tasks {
		s.AddTask(ctx, t)
	}
	fmt.Printf("✓ Added %d task(s) named '%s'\n", len(tasks), *name)
	return nil
}

func runTimer(args []string) error {
	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var task *models.Task
	if len(args) > 0 {
		for _, t := range s.All() {
			if t.ID == args[0] {
				task = &t
				break
			}
		}
		if task == nil {
			return fmt.Errorf("task not found: %s", args[0])
		}
	} else {
		for _, t := range s.TasksFor(time.Now()) {
			if t.Status == models.TaskStatusPending {
				task = &t
				break
			}
		}
		if task == nil {
			fmt.Println("No pending tasks for today.")
			return nil
		}
	}

	done, completed, err := ui.RunTimer(ctx, s, *task)
	if err != nil {
		return err
	}
	if completed {
		fmt.Printf("✓ Completed '%s' in %d minute(s)\n", done.Name, done.ActualMinutes)
	} else {
		fmt.Printf("Session left in progress for '%s'\n", done.Name)
	}
	return nil
}

func runStats(args []string) error {
	statsFlags := flag.NewFlagSet("stats", flag.ContinueOnError)
	scopeName := statsFlags.String("scope", "week", "Statistics scope (week, month, all)")
	if err := statsFlags.Parse(args); err != nil {
		return err
	}

	scope, err := stats.ParseScope(*scopeName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	summary := stats.Summarize(scope, s.All(), time.Now())

	fmt.Printf("Study Statistics (%s)\n", summary.Scope)
	fmt.Println("==========================")
	fmt.Printf("Study Time:   %d min\n", summary.TotalMinutes)
	fmt.Printf("Completed:    %d\n", summary.Completed)
	fmt.Printf("In Progress:  %d\n", summary.InProgress)
	fmt.Printf("Pending:      %d\n", summary.Pending)
	fmt.Printf("Study Days:   %d\n", summary.StudyDays)
	fmt.Printf("Perfect Days: %d\n", summary.PerfectDays)
	fmt.Printf("Max Streak:   %d\n", summary.MaxStreak)

	if len(summary.Subjects) > 0 {
		fmt.Println("\nBy Subject:")
		for _, sub := range summary.Subjects {
			fmt.Printf("  %-10s %4d min (%.1f%%)\n", sub.Category, sub.Minutes, sub.Percent)
		}
	}

	if len(summary.DailyProgress) > 0 {
		fmt.Println("\nDaily Progress:")
		for _, row := range summary.DailyProgress {
			fmt.Printf("  %s  %d/%d tasks, %d min (%d%%)\n",
				row.Date.Format("2006-01-02"), row.Completed, row.Total, row.Minutes, row.Percent)
		}
	}
	return nil
}

func runExport(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: studyplan export <csv|json|report>")
		return nil
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	exporter := export.New(exportDir)
	now := time.Now()

	var path string
	switch args[0] {
	case "csv":
		path, err = exporter.CSV(s.All(), now)
	case "json":
		path, err = exporter.JSON(s.All(), now)
	case "report":
		path, err = exporter.Report(s.All(), now)
	default:
		return fmt.Errorf("unknown export format: %s", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ Exported to %s\n", path)
	return nil
}

func runImport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: studyplan import <file.json>")
	}

	exporter := export.New(exportDir)
	tasks, err := exporter.ImportJSON(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	s.ImportTasks(ctx, tasks)
	fmt.Printf("✓ Imported %d task(s) from %s\n", len(tasks), args[0])
	return nil
}

func runRemind(args []string) error {
	remindFlags := flag.NewFlagSet("remind", flag.ContinueOnError)
	startClock := remindFlags.String("start", "19:00", "Time the study block starts (HH:MM)")
	lead := remindFlags.Duration("lead", 10*time.Minute, "How far ahead of each slot to remind")
	if err := remindFlags.Parse(args); err != nil {
		return err
	}

	clock, err := time.Parse("15:04", *startClock)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	now := time.Now()
	studyStart := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)

	reminders := remind.Plan(s.All(), now, now, studyStart, *lead)
	if len(reminders) == 0 {
		fmt.Println("No reminders to schedule.")
		return nil
	}

	for _, r := range reminders {
		fmt.Printf("%s  %s: %s\n", r.At.Format("15:04"), r.Title, r.Body)
	}
	return nil
}

func runDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: studyplan delete <task-id>")
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	s.DeleteTask(ctx, args[0])
	fmt.Printf("✓ Deleted task %s\n", args[0])
	return nil
}

func runClear(args []string) error {
	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	s.ClearAllTasks(ctx)
	fmt.Println("✓ Cleared all tasks")
	return nil
}

func runWeb(args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	port := webFlags.String("port", "8000", "Port to listen on")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.NewServer(s)
	fmt.Printf("Serving dashboard on http://localhost:%s\n", *port)
	return srv.Start(fmt.Sprintf(":%s", *port))
}

func runMCP(args []string) error {
	ctx := context.Background()
	s, database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := mcp.NewServer(s)
	return mcp.Serve(srv)
}
