package infrastructure

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"azuredevops-mcp-server/internal/domain"
)

// Connection is the opaque handle all tool handlers receive. It owns the
// organization URLs, the authenticated HTTP client, and lazily constructed
// per-subsystem clients. A Connection is built once at startup, never
// mutated afterwards, and is safe for concurrent use: multiple in-flight
// tool calls share it freely.
type Connection struct {
	orgURL      string
	searchURL   string
	httpClient  *http.Client
	credentials *domain.Credentials

	workItemsOnce sync.Once
	workItems     *WorkItemClient

	coreOnce sync.Once
	core     *CoreClient

	gitOnce sync.Once
	git     *GitClient

	searchOnce sync.Once
	search     *SearchClient
}

// NewConnection creates a connection from explicit URLs and an already
// authenticated HTTP client. Used directly by tests; production code goes
// through NewConnectionFromConfig.
func NewConnection(orgURL, searchURL string, httpClient *http.Client, credentials *domain.Credentials) *Connection {
	return &Connection{
		orgURL:      strings.TrimRight(orgURL, "/"),
		searchURL:   strings.TrimRight(searchURL, "/"),
		httpClient:  httpClient,
		credentials: credentials,
	}
}

// NewConnectionFromConfig wires a connection from the loaded configuration.
// The credential method comes from the explicit auth.type config value,
// resolved here once; nothing is read from the environment later.
func NewConnectionFromConfig(config *domain.Config, authManager *domain.AuthenticationManager) (*Connection, error) {
	httpClient, err := authManager.GetAuthenticatedClient()
	if err != nil {
		return nil, err
	}
	credentials, err := authManager.Credentials()
	if err != nil {
		return nil, err
	}

	searchURL := config.Organization.SearchURL
	if searchURL == "" {
		searchURL = deriveSearchURL(config.Organization.URL)
	}

	return NewConnection(config.Organization.URL, searchURL, httpClient, credentials), nil
}

// deriveSearchURL maps an organization URL onto the Azure DevOps search
// service host (dev.azure.com -> almsearch.dev.azure.com). Unknown hosts
// are returned unchanged; on-premises installations serve search from the
// same host.
func deriveSearchURL(orgURL string) string {
	parsed, err := url.Parse(orgURL)
	if err != nil {
		return orgURL
	}
	if parsed.Host == "dev.azure.com" {
		parsed.Host = "almsearch.dev.azure.com"
	}
	return parsed.String()
}

// OrganizationURL returns the configured organization base URL.
func (c *Connection) OrganizationURL() string {
	return c.orgURL
}

// AuthorizationHeader produces the Authorization header value for the
// connection's credentials (bearer token or basic-encoded PAT).
func (c *Connection) AuthorizationHeader() string {
	if c.credentials == nil {
		return ""
	}
	return c.credentials.AuthorizationHeader()
}

// WorkItems returns the work item tracking client, constructing it on
// first use.
func (c *Connection) WorkItems() *WorkItemClient {
	c.workItemsOnce.Do(func() {
		c.workItems = NewWorkItemClient(c.orgURL, c.httpClient)
	})
	return c.workItems
}

// Core returns the core (projects) client, constructing it on first use.
func (c *Connection) Core() *CoreClient {
	c.coreOnce.Do(func() {
		c.core = NewCoreClient(c.orgURL, c.httpClient)
	})
	return c.core
}

// Git returns the git client, constructing it on first use. Search result
// enrichment acquires this client only when content was requested.
func (c *Connection) Git() *GitClient {
	c.gitOnce.Do(func() {
		c.git = NewGitClient(c.orgURL, c.httpClient)
	})
	return c.git
}

// Search returns the code-search client, constructing it on first use.
func (c *Connection) Search() *SearchClient {
	c.searchOnce.Do(func() {
		c.search = NewSearchClient(c.searchURL, c.httpClient)
	})
	return c.search
}
