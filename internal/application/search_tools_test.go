package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// searchFixture wires a fake search host and a fake organization host
// behind a real Connection.
type searchFixture struct {
	conn *infrastructure.Connection

	searchRequests []domain.CodeSearchRequest
	gitRequests    int32
}

func newSearchFixture(t *testing.T, results []domain.CodeSearchResult) *searchFixture {
	t.Helper()
	fixture := &searchFixture{}

	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CodeSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fixture.searchRequests = append(fixture.searchRequests, req)
		json.NewEncoder(w).Encode(domain.CodeSearchResponse{Count: len(results), Results: results})
	}))
	t.Cleanup(searchServer.Close)

	orgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/_apis/git/repositories/") && strings.HasSuffix(r.URL.Path, "/items") {
			atomic.AddInt32(&fixture.gitRequests, 1)
			w.Write([]byte("file body for " + r.URL.Query().Get("path")))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no route"}`))
	}))
	t.Cleanup(orgServer.Close)

	fixture.conn = infrastructure.NewConnection(orgServer.URL, searchServer.URL, http.DefaultClient, nil)
	return fixture
}

func sampleResults(n int) []domain.CodeSearchResult {
	results := make([]domain.CodeSearchResult, n)
	for i := range results {
		results[i] = domain.CodeSearchResult{
			FileName:   "handler.go",
			Path:       "/src/handler.go",
			Repository: domain.CodeSearchRepository{ID: "repo-1", Name: "web-app"},
			Project:    domain.CodeSearchProject{ID: "p1", Name: "Fabrikam"},
			Versions:   []domain.CodeSearchVersion{{BranchName: "main"}},
		}
	}
	return results
}

func TestSearchCodeMergesImplicitProjectFilter(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText": "TODO",
		"project":    "P",
		"repository": "R",
	})
	require.NoError(t, err)

	require.Len(t, fixture.searchRequests, 1)
	sent := fixture.searchRequests[0]

	// The project scope becomes an explicit filter alongside the
	// caller's repository filter.
	assert.Equal(t, []string{"P"}, sent.Filters[domain.FilterProject])
	assert.Equal(t, []string{"R"}, sent.Filters[domain.FilterRepository])
}

func TestSearchCodeDefaults(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText": "TODO",
	})
	require.NoError(t, err)

	sent := fixture.searchRequests[0]
	assert.Equal(t, 0, sent.Skip)
	assert.Equal(t, defaultSearchTop, sent.Top)
	assert.True(t, sent.IncludeFacets)
	assert.Nil(t, sent.IncludeSnippet, "includeSnippet must be omitted unless the caller set it")
	assert.Nil(t, sent.Filters)
}

func TestSearchCodeIncludeSnippetForwarded(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText":     "TODO",
		"includeSnippet": false,
	})
	require.NoError(t, err)

	sent := fixture.searchRequests[0]
	require.NotNil(t, sent.IncludeSnippet)
	assert.False(t, *sent.IncludeSnippet)
}

func TestSearchCodeAllFilters(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText":  "TODO",
		"project":     "Fabrikam",
		"repository":  "web-app",
		"path":        "/src",
		"branch":      "main",
		"codeElement": "class",
	})
	require.NoError(t, err)

	sent := fixture.searchRequests[0]
	assert.Equal(t, []string{"Fabrikam"}, sent.Filters[domain.FilterProject])
	assert.Equal(t, []string{"web-app"}, sent.Filters[domain.FilterRepository])
	assert.Equal(t, []string{"/src"}, sent.Filters[domain.FilterPath])
	assert.Equal(t, []string{"main"}, sent.Filters[domain.FilterBranch])
	assert.Equal(t, []string{"class"}, sent.Filters[domain.FilterCodeElement])
}

func TestSearchCodeWithoutIncludeContentSkipsGit(t *testing.T) {
	fixture := newSearchFixture(t, sampleResults(3))
	enricher := NewEnricher(0, NewStructuredLogger())

	result, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText": "TODO",
	})
	require.NoError(t, err)

	// The git subsystem must not be touched when content was not asked for.
	assert.Equal(t, int32(0), atomic.LoadInt32(&fixture.gitRequests))

	response := result.(*domain.CodeSearchResponse)
	for _, r := range response.Results {
		assert.Empty(t, r.Content)
	}
}

func TestSearchCodeWithIncludeContentEnrichesResults(t *testing.T) {
	fixture := newSearchFixture(t, sampleResults(3))
	enricher := NewEnricher(2, NewStructuredLogger())

	result, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText":     "TODO",
		"includeContent": true,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&fixture.gitRequests))

	response := result.(*domain.CodeSearchResponse)
	for _, r := range response.Results {
		assert.Equal(t, "file body for /src/handler.go", r.Content)
	}
}

func TestSearchCodeIncludeContentWithNoResults(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{
		"searchText":     "TODO",
		"includeContent": true,
	})
	require.NoError(t, err)

	// Nothing to enrich, nothing to fetch.
	assert.Equal(t, int32(0), atomic.LoadInt32(&fixture.gitRequests))
}

func TestSearchCodeRequiresSearchText(t *testing.T) {
	fixture := newSearchFixture(t, nil)
	enricher := NewEnricher(0, NewStructuredLogger())

	_, err := handleSearchCode(context.Background(), fixture.conn, enricher, map[string]interface{}{})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.Classify(err).Kind)
}
