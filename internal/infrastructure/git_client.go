package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"azuredevops-mcp-server/internal/domain"
)

// GitClient handles Azure DevOps git API interactions (repositories and
// file contents). It also serves as the content fetcher for code-search
// result enrichment.
type GitClient struct {
	rest *restClient
}

// NewGitClient creates a new git API client.
func NewGitClient(orgURL string, httpClient *http.Client) *GitClient {
	return &GitClient{rest: newRESTClient(orgURL, httpClient)}
}

// ListRepositories returns the git repositories in a project.
func (c *GitClient) ListRepositories(ctx context.Context, project string) (*domain.RepositoryList, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/git/repositories?api-version=%s",
		c.rest.baseURL, url.PathEscape(project), apiVersion)

	var list domain.RepositoryList
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint, "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRepository retrieves a single repository by ID or name.
func (c *GitClient) GetRepository(ctx context.Context, project, repositoryIDOrName string) (*domain.Repository, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/git/repositories/%s?api-version=%s",
		c.rest.baseURL, url.PathEscape(project), url.PathEscape(repositoryIDOrName), apiVersion)

	var repo domain.Repository
	if err := c.rest.doJSON(ctx, http.MethodGet, endpoint, "", nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// GetItemContent downloads the raw contents of a file from a repository.
// version optionally pins the read to a branch; when empty, the
// repository's default branch is used.
func (c *GitClient) GetItemContent(ctx context.Context, project, repositoryID, path, version string) ([]byte, error) {
	query := url.Values{}
	query.Set("api-version", apiVersion)
	query.Set("path", path)
	query.Set("download", "true")
	if version != "" {
		query.Set("versionDescriptor.version", version)
		query.Set("versionDescriptor.versionType", "branch")
	}

	endpoint := fmt.Sprintf("%s/%s/_apis/git/repositories/%s/items?%s",
		c.rest.baseURL, url.PathEscape(project), url.PathEscape(repositoryID), query.Encode())

	return c.rest.doRaw(ctx, endpoint)
}
