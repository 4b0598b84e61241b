package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerProjectsResource(srv, svc)
	registerProjectTemplate(srv, svc)
}

func registerProjectsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"rowcount://projects",
		"Projects",
		mcp.WithResourceDescription("All knitting projects with position and time worked."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		projects, err := svc.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"projects": projects,
			"count":    len(projects),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerProjectTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"rowcount://projects/{id}",
		"Project Details",
		mcp.WithTemplateDescription("A project with its current instruction and available repeat actions."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("project id is required")
		}
		dto, err := svc.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"project": dto})
	})
}

// templateArg accepts both a plain string and the single-element slice
// some URI template matchers produce.
func templateArg(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
