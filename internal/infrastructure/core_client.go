package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"azuredevops-mcp-server/internal/domain"
)

// CoreClient handles Azure DevOps core API interactions (team projects).
type CoreClient struct {
	rest *restClient
}

// NewCoreClient creates a new core API client.
func NewCoreClient(orgURL string, httpClient *http.Client) *CoreClient {
	return &CoreClient{rest: newRESTClient(orgURL, httpClient)}
}

// ListProjects returns the team projects in the organization.
// skip and top are passed through to the API; zero values are omitted.
func (c *CoreClient) ListProjects(ctx context.Context, skip, top int) (*domain.TeamProjectList, error) {
	query := url.Values{}
	query.Set("api-version", apiVersion)
	if skip > 0 {
		query.Set("$skip", strconv.Itoa(skip))
	}
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	endpoint := fmt.Sprintf("%s/_apis/projects?%s", c.rest.baseURL, query.Encode())

	var list domain.TeamProjectList
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint, "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProject retrieves a single team project by ID or name.
func (c *CoreClient) GetProject(ctx context.Context, projectIDOrName string) (*domain.TeamProject, error) {
	endpoint := fmt.Sprintf("%s/_apis/projects/%s?api-version=%s",
		c.rest.baseURL, url.PathEscape(projectIDOrName), apiVersion)

	var project domain.TeamProject
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint, "", nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
