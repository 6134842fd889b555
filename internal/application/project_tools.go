package application

import (
	"context"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// Tool name constants for project operations
const (
	ToolListProjects = "list_projects"
	ToolGetProject   = "get_project"
)

// RegisterProjectTools adds the project tools to the registry.
func RegisterProjectTools(registry *Registry) error {
	tools := []struct {
		definition domain.ToolDefinition
		handler    HandlerFunc
	}{
		{
			definition: domain.ToolDefinition{
				Name:        ToolListProjects,
				Description: "List the projects in the organization",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"skip": map[string]interface{}{
							"type":        "number",
							"description": "Number of projects to skip (optional)",
						},
						"top": map[string]interface{}{
							"type":        "number",
							"description": "Maximum number of projects to return (optional)",
						},
					},
				},
			},
			handler: handleListProjects,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolGetProject,
				Description: "Retrieve a project by its name or ID",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
					},
					Required: []string{"project"},
				},
			},
			handler: handleGetProject,
		},
	}

	for _, tool := range tools {
		if err := registry.Register(tool.definition, tool.handler); err != nil {
			return err
		}
	}
	return nil
}

// handleListProjects handles the list_projects tool call.
func handleListProjects(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	skip, err := getIntParam(args, "skip", false)
	if err != nil {
		return nil, err
	}
	top, err := getIntParam(args, "top", false)
	if err != nil {
		return nil, err
	}

	return conn.Core().ListProjects(ctx, skip, top)
}

// handleGetProject handles the get_project tool call.
func handleGetProject(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}

	return conn.Core().GetProject(ctx, project)
}
