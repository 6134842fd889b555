package application

import (
	"context"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// ToolSearchCode is the tool name for code search.
const ToolSearchCode = "search_code"

// defaultSearchTop is the page size used when the caller does not ask
// for a specific number of results.
const defaultSearchTop = 100

// RegisterSearchTools adds the code search tool to the registry. The
// enricher is captured by the handler so search results can be expanded
// with file contents on request.
func RegisterSearchTools(registry *Registry, enricher *Enricher) error {
	definition := domain.ToolDefinition{
		Name:        ToolSearchCode,
		Description: "Search for code across the organization's repositories",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"searchText": map[string]interface{}{
					"type":        "string",
					"description": "The search query (supports code search syntax, e.g. class:Foo)",
				},
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to a project (optional)",
				},
				"repository": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to a repository (optional)",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to a path prefix (optional)",
				},
				"branch": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to a branch (optional)",
				},
				"codeElement": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to a code element type (optional, e.g. class, function)",
				},
				"skip": map[string]interface{}{
					"type":        "number",
					"description": "Number of results to skip (optional)",
				},
				"top": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (optional, default 100)",
				},
				"includeSnippet": map[string]interface{}{
					"type":        "boolean",
					"description": "Include a match snippet for each result (optional)",
				},
				"includeContent": map[string]interface{}{
					"type":        "boolean",
					"description": "Fetch the full file content for each result (optional)",
				},
			},
			Required: []string{"searchText"},
		},
	}

	return registry.Register(definition, func(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
		return handleSearchCode(ctx, conn, enricher, args)
	})
}

// handleSearchCode handles the search_code tool call. When the caller
// asks for file contents, the Git client is acquired only after the
// search itself returned results to enrich.
func handleSearchCode(ctx context.Context, conn *infrastructure.Connection, enricher *Enricher, args map[string]interface{}) (interface{}, error) {
	searchText, err := getStringParam(args, "searchText", true)
	if err != nil {
		return nil, err
	}
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return nil, err
	}
	repository, err := getStringParam(args, "repository", false)
	if err != nil {
		return nil, err
	}
	path, err := getStringParam(args, "path", false)
	if err != nil {
		return nil, err
	}
	branch, err := getStringParam(args, "branch", false)
	if err != nil {
		return nil, err
	}
	codeElement, err := getStringParam(args, "codeElement", false)
	if err != nil {
		return nil, err
	}
	skip, err := getIntParam(args, "skip", false)
	if err != nil {
		return nil, err
	}
	top, err := getIntParam(args, "top", false)
	if err != nil {
		return nil, err
	}
	if top <= 0 {
		top = defaultSearchTop
	}
	includeSnippet, snippetSet, err := getBoolParam(args, "includeSnippet")
	if err != nil {
		return nil, err
	}
	includeContent, _, err := getBoolParam(args, "includeContent")
	if err != nil {
		return nil, err
	}

	request := &domain.CodeSearchRequest{
		SearchText:    searchText,
		Skip:          skip,
		Top:           top,
		Filters:       buildSearchFilters(project, repository, path, branch, codeElement),
		IncludeFacets: true,
	}
	if snippetSet {
		request.IncludeSnippet = &includeSnippet
	}

	response, err := conn.Search().SearchCode(ctx, project, request)
	if err != nil {
		return nil, err
	}

	if includeContent && len(response.Results) > 0 {
		enricher.Enrich(ctx, conn.Git(), response.Results)
	}

	return response, nil
}

// buildSearchFilters assembles the filter map for a code search request.
// A project scope always becomes an explicit Project filter so paging
// stays consistent between the project-scoped and organization-wide
// endpoints.
func buildSearchFilters(project, repository, path, branch, codeElement string) map[string][]string {
	filters := make(map[string][]string)
	if project != "" {
		filters[domain.FilterProject] = []string{project}
	}
	if repository != "" {
		filters[domain.FilterRepository] = []string{repository}
	}
	if path != "" {
		filters[domain.FilterPath] = []string{path}
	}
	if branch != "" {
		filters[domain.FilterBranch] = []string{branch}
	}
	if codeElement != "" {
		filters[domain.FilterCodeElement] = []string{codeElement}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
