package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"azuredevops-mcp-server/internal/domain"
)

// WorkItemClient handles Azure DevOps work item tracking API interactions.
// It provides the operations backing the work item tools exposed by the
// MCP server.
type WorkItemClient struct {
	rest *restClient
}

// NewWorkItemClient creates a new work item tracking client.
// The orgURL should be the organization root (e.g. "https://dev.azure.com/fabrikam").
// The httpClient should be an authenticated client from the AuthenticationManager.
func NewWorkItemClient(orgURL string, httpClient *http.Client) *WorkItemClient {
	return &WorkItemClient{rest: newRESTClient(orgURL, httpClient)}
}

// scopedPath builds an API path, optionally scoped to a project.
func (c *WorkItemClient) scopedPath(project, suffix string) string {
	if project == "" {
		return fmt.Sprintf("%s/_apis/%s", c.rest.baseURL, suffix)
	}
	return fmt.Sprintf("%s/%s/_apis/%s", c.rest.baseURL, url.PathEscape(project), suffix)
}

// GetWorkItem retrieves a single work item by ID.
// When fields is non-empty, only those field reference names are returned.
func (c *WorkItemClient) GetWorkItem(ctx context.Context, project string, id int, fields []string) (*domain.WorkItem, error) {
	endpoint := c.scopedPath(project, fmt.Sprintf("wit/workitems/%d", id))

	query := url.Values{}
	query.Set("api-version", apiVersion)
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	var item domain.WorkItem
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint+"?"+query.Encode(), "", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWorkItems retrieves a batch of work items by ID in a single call.
func (c *WorkItemClient) GetWorkItems(ctx context.Context, ids []int, fields []string) (*domain.WorkItemList, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.Itoa(id)
	}

	query := url.Values{}
	query.Set("api-version", apiVersion)
	query.Set("ids", strings.Join(idStrings, ","))
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	endpoint := fmt.Sprintf("%s/_apis/wit/workitems?%s", c.rest.baseURL, query.Encode())

	var list domain.WorkItemList
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint, "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// QueryByWiql runs a WIQL query and returns the matching work item
// references. Field data requires a follow-up GetWorkItems call.
func (c *WorkItemClient) QueryByWiql(ctx context.Context, project, wiql string, top int) (*domain.WorkItemQueryResult, error) {
	endpoint := c.scopedPath(project, "wit/wiql")

	query := url.Values{}
	query.Set("api-version", apiVersion)
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	body := domain.WiqlQuery{Query: wiql}

	var result domain.WorkItemQueryResult
	if err := c.rest.doJSON(ctx, http.MethodPost, endpoint+"?"+query.Encode(), "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateWorkItem creates a new work item of the given type.
// The operations parameter is a JSON-patch document setting the initial
// fields (at minimum System.Title).
func (c *WorkItemClient) CreateWorkItem(ctx context.Context, project, workItemType string, operations []domain.JSONPatchOperation) (*domain.WorkItem, error) {
	endpoint := c.scopedPath(project, "wit/workitems/$"+url.PathEscape(workItemType))

	var item domain.WorkItem
	err := c.rest.doJSON(ctx, http.MethodPost, endpoint+"?api-version="+apiVersion,
		"application/json-patch+json", operations, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWorkItem applies a JSON-patch document to an existing work item
// and returns the updated item.
func (c *WorkItemClient) UpdateWorkItem(ctx context.Context, id int, operations []domain.JSONPatchOperation) (*domain.WorkItem, error) {
	endpoint := fmt.Sprintf("%s/_apis/wit/workitems/%d?api-version=%s", c.rest.baseURL, id, apiVersion)

	var item domain.WorkItem
	err := c.rest.doJSON(ctx, http.MethodPatch, endpoint,
		"application/json-patch+json", operations, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddComment adds a comment to a work item.
func (c *WorkItemClient) AddComment(ctx context.Context, project string, id int, text string) (*domain.WorkItemComment, error) {
	endpoint := c.scopedPath(project, fmt.Sprintf("wit/workItems/%d/comments", id))

	body := map[string]string{"text": text}

	var comment domain.WorkItemComment
	err := c.rest.doJSON(ctx, http.MethodPost, endpoint+"?api-version="+commentsAPIVersion, "", body, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the comments on a work item.
func (c *WorkItemClient) ListComments(ctx context.Context, project string, id int) (*domain.WorkItemCommentList, error) {
	endpoint := c.scopedPath(project, fmt.Sprintf("wit/workItems/%d/comments", id))

	var list domain.WorkItemCommentList
	err := c.rest.doJSON(ctx, http.MethodGet, endpoint+"?api-version="+commentsAPIVersion, "", nil, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
