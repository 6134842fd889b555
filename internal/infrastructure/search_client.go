package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"azuredevops-mcp-server/internal/domain"
)

// SearchClient handles Azure DevOps code-search API interactions.
// Code search is served from a dedicated host (almsearch.dev.azure.com for
// hosted organizations); the base URL is resolved by the Connection.
type SearchClient struct {
	rest *restClient
}

// NewSearchClient creates a new code-search client.
func NewSearchClient(searchURL string, httpClient *http.Client) *SearchClient {
	return &SearchClient{rest: newRESTClient(searchURL, httpClient)}
}

// SearchCode executes a code search. When project is non-empty the request
// targets the project-scoped endpoint; otherwise the organization-wide
// endpoint is used. This routing decision is made once per call and does
// not change the response shape.
func (c *SearchClient) SearchCode(ctx context.Context, project string, req *domain.CodeSearchRequest) (*domain.CodeSearchResponse, error) {
	var endpoint string
	if project == "" {
		endpoint = fmt.Sprintf("%s/_apis/search/codesearchresults?api-version=%s",
			c.rest.baseURL, apiVersion)
	} else {
		endpoint = fmt.Sprintf("%s/%s/_apis/search/codesearchresults?api-version=%s",
			c.rest.baseURL, url.PathEscape(project), apiVersion)
	}

	var response domain.CodeSearchResponse
	if err := c.rest.doJSON(ctx, http.MethodPost, endpoint, "", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
