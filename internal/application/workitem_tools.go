package application

import (
	"context"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// Tool name constants for work item operations
const (
	ToolGetWorkItem          = "get_work_item"
	ToolListWorkItems        = "list_work_items"
	ToolCreateWorkItem       = "create_work_item"
	ToolUpdateWorkItem       = "update_work_item"
	ToolAddWorkItemComment   = "add_work_item_comment"
	ToolListWorkItemComments = "list_work_item_comments"
)

// maxQueryResults caps how many work items a single WIQL query expands
// into a batch read; the batch endpoint accepts at most 200 IDs.
const maxQueryResults = 200

// RegisterWorkItemTools adds the work item tracking tools to the registry.
func RegisterWorkItemTools(registry *Registry) error {
	tools := []struct {
		definition domain.ToolDefinition
		handler    HandlerFunc
	}{
		{
			definition: domain.ToolDefinition{
				Name:        ToolGetWorkItem,
				Description: "Retrieve a work item by its ID",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"workItemId": map[string]interface{}{
							"type":        "number",
							"description": "The work item ID",
						},
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID (optional)",
						},
						"fields": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Field reference names to return (optional, e.g. System.Title)",
						},
					},
					Required: []string{"workItemId"},
				},
			},
			handler: handleGetWorkItem,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolListWorkItems,
				Description: "List work items matching a WIQL query",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The WIQL query (e.g. SELECT [System.Id] FROM WorkItems WHERE ...)",
						},
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project to scope the query to (optional)",
						},
						"top": map[string]interface{}{
							"type":        "number",
							"description": "Maximum number of work items to return (optional)",
						},
					},
					Required: []string{"query"},
				},
			},
			handler: handleListWorkItems,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolCreateWorkItem,
				Description: "Create a new work item",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
						"type": map[string]interface{}{
							"type":        "string",
							"description": "The work item type (e.g. Bug, Task, User Story)",
						},
						"title": map[string]interface{}{
							"type":        "string",
							"description": "The work item title",
						},
						"description": map[string]interface{}{
							"type":        "string",
							"description": "The work item description (optional)",
						},
						"assignedTo": map[string]interface{}{
							"type":        "string",
							"description": "The assignee's unique name (optional)",
						},
						"areaPath": map[string]interface{}{
							"type":        "string",
							"description": "The area path (optional)",
						},
						"iterationPath": map[string]interface{}{
							"type":        "string",
							"description": "The iteration path (optional)",
						},
					},
					Required: []string{"project", "type", "title"},
				},
			},
			handler: handleCreateWorkItem,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolUpdateWorkItem,
				Description: "Update fields on an existing work item",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"workItemId": map[string]interface{}{
							"type":        "number",
							"description": "The work item ID",
						},
						"title": map[string]interface{}{
							"type":        "string",
							"description": "The new title (optional)",
						},
						"description": map[string]interface{}{
							"type":        "string",
							"description": "The new description (optional)",
						},
						"state": map[string]interface{}{
							"type":        "string",
							"description": "The new state (optional, e.g. Active, Closed)",
						},
						"assignedTo": map[string]interface{}{
							"type":        "string",
							"description": "The new assignee's unique name (optional)",
						},
					},
					Required: []string{"workItemId"},
				},
			},
			handler: handleUpdateWorkItem,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolAddWorkItemComment,
				Description: "Add a comment to a work item",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"workItemId": map[string]interface{}{
							"type":        "number",
							"description": "The work item ID",
						},
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
						"text": map[string]interface{}{
							"type":        "string",
							"description": "The comment text",
						},
					},
					Required: []string{"workItemId", "project", "text"},
				},
			},
			handler: handleAddWorkItemComment,
		},
		{
			definition: domain.ToolDefinition{
				Name:        ToolListWorkItemComments,
				Description: "List the comments on a work item",
				InputSchema: domain.JSONSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"workItemId": map[string]interface{}{
							"type":        "number",
							"description": "The work item ID",
						},
						"project": map[string]interface{}{
							"type":        "string",
							"description": "The project name or ID",
						},
					},
					Required: []string{"workItemId", "project"},
				},
			},
			handler: handleListWorkItemComments,
		},
	}

	for _, tool := range tools {
		if err := registry.Register(tool.definition, tool.handler); err != nil {
			return err
		}
	}
	return nil
}

// handleGetWorkItem handles the get_work_item tool call.
func handleGetWorkItem(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	workItemID, err := getIntParam(args, "workItemId", true)
	if err != nil {
		return nil, err
	}
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return nil, err
	}
	fields, err := getStringSliceParam(args, "fields")
	if err != nil {
		return nil, err
	}

	return conn.WorkItems().GetWorkItem(ctx, project, workItemID, fields)
}

// handleListWorkItems handles the list_work_items tool call.
// The WIQL query returns references only; the matching work items are
// expanded with a follow-up batch read.
func handleListWorkItems(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return nil, err
	}
	top, err := getIntParam(args, "top", false)
	if err != nil {
		return nil, err
	}
	if top <= 0 || top > maxQueryResults {
		top = maxQueryResults
	}

	queryResult, err := conn.WorkItems().QueryByWiql(ctx, project, query, top)
	if err != nil {
		return nil, err
	}

	if len(queryResult.WorkItems) == 0 {
		return &domain.WorkItemList{Count: 0, Value: []domain.WorkItem{}}, nil
	}

	ids := make([]int, 0, len(queryResult.WorkItems))
	for _, ref := range queryResult.WorkItems {
		ids = append(ids, ref.ID)
	}

	return conn.WorkItems().GetWorkItems(ctx, ids, nil)
}

// handleCreateWorkItem handles the create_work_item tool call.
func handleCreateWorkItem(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}
	workItemType, err := getStringParam(args, "type", true)
	if err != nil {
		return nil, err
	}
	title, err := getStringParam(args, "title", true)
	if err != nil {
		return nil, err
	}

	// Optional fields
	description, _ := getStringParam(args, "description", false)
	assignedTo, _ := getStringParam(args, "assignedTo", false)
	areaPath, _ := getStringParam(args, "areaPath", false)
	iterationPath, _ := getStringParam(args, "iterationPath", false)

	operations := []domain.JSONPatchOperation{
		{Op: "add", Path: "/fields/System.Title", Value: title},
	}
	if description != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "add", Path: "/fields/System.Description", Value: description})
	}
	if assignedTo != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "add", Path: "/fields/System.AssignedTo", Value: assignedTo})
	}
	if areaPath != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "add", Path: "/fields/System.AreaPath", Value: areaPath})
	}
	if iterationPath != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "add", Path: "/fields/System.IterationPath", Value: iterationPath})
	}

	return conn.WorkItems().CreateWorkItem(ctx, project, workItemType, operations)
}

// handleUpdateWorkItem handles the update_work_item tool call.
func handleUpdateWorkItem(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	workItemID, err := getIntParam(args, "workItemId", true)
	if err != nil {
		return nil, err
	}

	title, _ := getStringParam(args, "title", false)
	description, _ := getStringParam(args, "description", false)
	state, _ := getStringParam(args, "state", false)
	assignedTo, _ := getStringParam(args, "assignedTo", false)

	var operations []domain.JSONPatchOperation
	if title != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "replace", Path: "/fields/System.Title", Value: title})
	}
	if description != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "replace", Path: "/fields/System.Description", Value: description})
	}
	if state != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "replace", Path: "/fields/System.State", Value: state})
	}
	if assignedTo != "" {
		operations = append(operations, domain.JSONPatchOperation{Op: "replace", Path: "/fields/System.AssignedTo", Value: assignedTo})
	}

	if len(operations) == 0 {
		return nil, domain.NewValidationError("at least one field to update must be provided", nil)
	}

	return conn.WorkItems().UpdateWorkItem(ctx, workItemID, operations)
}

// handleAddWorkItemComment handles the add_work_item_comment tool call.
func handleAddWorkItemComment(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	workItemID, err := getIntParam(args, "workItemId", true)
	if err != nil {
		return nil, err
	}
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}
	text, err := getStringParam(args, "text", true)
	if err != nil {
		return nil, err
	}

	return conn.WorkItems().AddComment(ctx, project, workItemID, text)
}

// handleListWorkItemComments handles the list_work_item_comments tool call.
func handleListWorkItemComments(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error) {
	workItemID, err := getIntParam(args, "workItemId", true)
	if err != nil {
		return nil, err
	}
	project, err := getStringParam(args, "project", true)
	if err != nil {
		return nil, err
	}

	return conn.WorkItems().ListComments(ctx, project, workItemID)
}
