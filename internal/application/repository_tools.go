package application

import (
	"context"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// Tool name constants for repository operations
const (
	ToolListRepositories = "list_repositories"
	ToolGetRepository    = "get_repository"
	ToolGetFileContent   = "get_file_content"
)

// RegisterRepositoryTools adds the Git repository tools to the registry.
func RegisterRepositoryTools(registry *Registry) error {
	tools := []struct {
		definition domain.ToolDefinition
		handler    HandlerFunc
	}{
		{
			definition: domain.ToolDefinition{
				Name:        ToolListRepositories,
				Description: "List the Git repositories in a project",
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
			handler: handleListRepositories,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolGetRepository,
				Description: "Retrieve a Git repository by its name or ID",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
						"repository": map[string]interface{}{
							"type":        "string",
							"description": "The repository name or ID",
						},
					},
					Required: []string{"project", "repository"},
				},
			},
			handler: handleGetRepository,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolGetFileContent,
				Description: "Retrieve the content of a file from a Git repository",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
						"repository": map[string]interface{}{
							"type":        "string",
							"description": "The repository name or ID",
						},
						"path": map[string]interface{}{
							"type":        "string",
							"description": "The file path within the repository (e.g. /src/main.go)",
						},
						"branch": map[string]interface{}{
							"type":        "string",
							"description": "The branch to read from (optional, defaults to the default branch)",
						},
					},
					Required: []string{"project", "repository", "path"},
				},
			},
			handler: handleGetFileContent,
		},
	}

	for _, tool := range tools {
		if err := registry.Register(tool.definition, tool.handler); err != nil {
			return err
		}
	}
	return nil
}

// handleListRepositories handles the list_repositories tool call.
func handleListRepositories(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}

	return conn.Git().ListRepositories(ctx, project)
}

// handleGetRepository handles the get_repository tool call.
func handleGetRepository(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}

	return conn.Git().GetRepository(ctx, project, repository)
}

// handleGetFileContent handles the get_file_content tool call. The file
// body is returned as plain text rather than a JSON document; binary
// files are replaced by a placeholder.
func handleGetFileContent(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	path, err := getStringParam(args, "path", true)
	if err != nil {
		return nil, err
	}
	branch, err := getStringParam(args, "branch", false)
	if err != nil {
		return nil, err
	}

	raw, err := conn.Git().GetItemContent(ctx, project, repository, path, branch)
	if err != nil {
		return nil, err
	}
	return normalizeContent(raw), nil
}
