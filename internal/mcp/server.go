package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tom7523326/studyplan/internal/export"
	"github.com/tom7523326/studyplan/internal/session"
	"github.com/tom7523326/studyplan/internal/stats"
	"github.com/tom7523326/studyplan/internal/store"
	"github.com/tom7523326/studyplan/pkg/models"
)

// NewServer creates a new MCP server over the task store.
func NewServer(s *store.Store) *server.MCPServer {
	srv := server.NewMCPServer("StudyPlan", "0.1.0")

	srv.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a study task, either for a single day or repeated daily across a date range."),
		mcp.WithString("name", mcp.Description("Task name"), mcp.Required()),
		mcp.WithString("category", mcp.Description("Subject (chinese|math|english|piano)"), mcp.Required()),
		mcp.WithNumber("expected_minutes", mcp.Description("Expected duration in minutes (positive)"), mcp.Required()),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD); defaults to start_date for a one-off task")),
	), addTaskHandler(s))

	srv.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks with optional filters."),
		mcp.WithString("date", mcp.Description("Filter by calendar day (YYYY-MM-DD)")),
		mcp.WithString("status", mcp.Description("Filter by status (pending|in_progress|completed)")),
	), listTasksHandler(s))

	srv.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Complete a task, recording the elapsed study time."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithNumber("elapsed_seconds", mcp.Description("Elapsed study time in seconds"), mcp.Required()),
	), completeTaskHandler(s))

	srv.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task by id."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
	), deleteTaskHandler(s))

	srv.AddTool(mcp.NewTool("clear_all_tasks",
		mcp.WithDescription("Delete every task."),
	), clearAllTasksHandler(s))

	srv.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Get aggregate study statistics for a scope."),
		mcp.WithString("scope", mcp.Description("Scope (week|month|all), defaults to all")),
	), getStatisticsHandler(s))

	srv.AddTool(mcp.NewTool("export_report",
		mcp.WithDescription("Render the human-readable study report."),
	), exportReportHandler(s))

	return srv
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func addTaskHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := mcp.ParseString(request, "name", "")
		category, err := models.ParseTaskCategory(mcp.ParseString(request, "category", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		minutes := mcp.ParseInt(request, "expected_minutes", 0)

		startDate := mcp.ParseString(request, "start_date", "")
		endDate := mcp.ParseString(request, "end_date", startDate)
		start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date: %v", err)), nil
		}
		end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %v", err)), nil
		}

		tasks, err := models.NewTasks(name, category, minutes, start, end)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, t := range tasks {
			s.AddTask(ctx, t)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added %d task(s) named '%s'", len(tasks), name)), nil
	}
}

func listTasksHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks := s.All()

		if date := mcp.ParseString(request, "date", ""); date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
			}
			tasks = s.TasksFor(day)
		}

		if status := mcp.ParseString(request, "status", ""); status != "" {
			parsed, err := models.ParseTaskStatus(status)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var filtered []models.Task
			for _, t := range tasks {
				if t.Status == parsed {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		data, err := json.Marshal(map[string]interface{}{"tasks": tasks})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func completeTaskHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		elapsed := mcp.ParseInt(request, "elapsed_seconds", 0)

		var task *models.Task
		for _, t := range s.All() {
			if t.ID == id {
				task = &t
				break
			}
		}
		if task == nil {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}

		now := time.Now()
		sess := session.New(*task).Start(now)
		sess.ElapsedSeconds = elapsed
		_, updated := sess.Complete(now)
		s.UpdateTask(ctx, updated)

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' completed with %d minute(s)", updated.Name, updated.ActualMinutes)), nil
	}
}

func deleteTaskHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		s.DeleteTask(ctx, id)
		return mcp.NewToolResultText("Task deleted"), nil
	}
}

func clearAllTasksHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.ClearAllTasks(ctx)
		return mcp.NewToolResultText("All tasks cleared"), nil
	}
}

func getStatisticsHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := stats.ParseScope(mcp.ParseString(request, "scope", string(stats.ScopeAll)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(stats.Summarize(scope, s.All(), time.Now()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func exportReportHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(export.BuildReport(s.All())), nil
	}
}
