package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/rowcount/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListProjectsTool(srv, svc)
	registerGetProjectTool(srv, svc)
	registerCreateProjectTool(srv, svc)
	registerMoveTool(srv, svc, Advance, "Advance to the next row of the pattern.")
	registerMoveTool(srv, svc, Retreat, "Step back one row of the pattern.")
	registerMoveTool(srv, svc, StartRepeat, "Enter the repeat section that follows the current row.")
	registerMoveTool(srv, svc, RepeatAgain, "At the end of a repeat section, go back to its first row for another pass.")
	registerMoveTool(srv, svc, FinishRepeats, "At the end of a repeat section, leave it and continue with the pattern.")
	registerSessionTool(srv, svc)
}

func registerListProjectsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_projects",
		mcp.WithDescription("List every knitting project with its position and time worked."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := svc.ListProjects(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"projects": projects,
			"count":    len(projects),
		})
	})
}

func registerGetProjectTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_project",
		mcp.WithDescription("Fetch a project with its current instruction and the repeat actions available."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project id, unique id prefix or title."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GetProject(ctx, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCreateProjectTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_project",
		mcp.WithDescription("Create a project from a knitting pattern written one instruction per line."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Unique project title."),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern text, e.g. \"Row 1: knit\\nRow 2: purl\\nRepeat rows 1-2 3 times\"."),
		),
		mcp.WithNumber("start_row",
			mcp.Description("Row number to start on, for projects already under way."),
		),
		mcp.WithString("worked",
			mcp.Description("Time already spent, e.g. \"2h 30m\"."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title    string  `json:"title"`
			Pattern  string  `json:"pattern"`
			StartRow float64 `json:"start_row"`
			Worked   string  `json:"worked"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		worked, err := timeutil.ParseWorked(args.Worked)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid worked value: %v", err)), nil
		}

		dto, err := svc.CreateProject(ctx, CreateOptions{
			Title:    args.Title,
			Pattern:  args.Pattern,
			StartRow: int(args.StartRow),
			Worked:   worked,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveTool(srv *server.MCPServer, svc *Service, name, description string) {
	tool := mcp.NewTool(
		name,
		mcp.WithDescription(description),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project id, unique id prefix or title."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Move(ctx, ref, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSessionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"session",
		mcp.WithDescription("Start, pause, resume, end or discard the timed work session of a project."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project id, unique id prefix or title."),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Session operation."),
			mcp.Enum(SessionStart, SessionPause, SessionResume, SessionToggle, SessionEnd, SessionDiscard),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action, err := request.RequireString("action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SessionAction(ctx, ref, action)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
