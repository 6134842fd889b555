package application

import (
	"context"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"azuredevops-mcp-server/internal/domain"
)

// defaultMaxContentFetches bounds the number of in-flight file-content
// fetches per enrichment batch. The search API can return large result
// sets; an unbounded fan-out would open one connection per result.
const defaultMaxContentFetches = 8

// binaryContentPlaceholder stands in for file bodies that are not valid
// UTF-8 text. The placeholder is stable so agents can match on it.
const binaryContentPlaceholder = "[binary content]"

// ContentFetcher fetches raw file contents by repository, path, project,
// and version reference. Satisfied by *infrastructure.GitClient.
type ContentFetcher interface {
	GetItemContent(ctx context.Context, project, repositoryID, path, version string) ([]byte, error)
}

// Enricher attaches file contents to code-search results. Fetches for a
// batch run concurrently up to the configured limit, and every fetch is
// allowed to settle: a failed fetch leaves that one result without
// content and never fails the batch.
type Enricher struct {
	maxInFlight int
	logger      *StructuredLogger
}

// NewEnricher creates an enricher. maxInFlight <= 0 selects the default
// concurrency bound.
func NewEnricher(maxInFlight int, logger *StructuredLogger) *Enricher {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxContentFetches
	}
	if logger == nil {
		logger = NewStructuredLogger()
	}
	return &Enricher{
		maxInFlight: maxInFlight,
		logger:      logger,
	}
}

// Enrich fetches file content for each result and assigns it in place.
// Per-result failures are recorded as observability events only; the
// affected results keep an empty Content, which is a valid terminal
// state. A nil fetcher degrades the whole batch the same way.
func (e *Enricher) Enrich(ctx context.Context, fetcher ContentFetcher, results []domain.CodeSearchResult) {
	if len(results) == 0 {
		return
	}
	if fetcher == nil {
		e.logger.LogWarn("content fetcher unavailable; returning search results without content", map[string]interface{}{
			"results": len(results),
		})
		return
	}

	group := new(errgroup.Group)
	group.SetLimit(e.maxInFlight)

	for i := range results {
		result := &results[i]
		group.Go(func() error {
			version := ""
			if len(result.Versions) > 0 {
				version = result.Versions[0].BranchName
			}

			raw, err := fetcher.GetItemContent(ctx, result.Project.Name, result.Repository.ID, result.Path, version)
			if err != nil {
				e.logger.LogWarn("content fetch failed; result returned without content", map[string]interface{}{
					"repository": result.Repository.Name,
					"path":       result.Path,
					"error":      err.Error(),
				})
				return nil
			}

			result.Content = normalizeContent(raw)
			return nil
		})
	}

	// Goroutines never return errors; Wait is purely the fan-in barrier.
	_ = group.Wait()
}

// normalizeContent applies the content decision table: valid UTF-8 bytes
// pass through as text, everything else becomes the stable placeholder.
func normalizeContent(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return binaryContentPlaceholder
}
