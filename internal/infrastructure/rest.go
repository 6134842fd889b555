package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"azuredevops-mcp-server/internal/domain"
)

// apiVersion is the Azure DevOps REST API version used by all clients.
const apiVersion = "7.1"

// commentsAPIVersion is the api-version for the work item comments endpoints,
// which are still in preview.
const commentsAPIVersion = "7.1-preview.3"

// restClient is the shared HTTP plumbing for all Azure DevOps clients.
// It executes requests with the authenticated client and classifies
// non-success responses into DomainErrors at the point where the status
// code is known.
type restClient struct {
	baseURL    string
	httpClient *http.Client
}

func newRESTClient(baseURL string, httpClient *http.Client) *restClient {
	return &restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// doJSON executes a request with an optional JSON-encoded body and decodes
// the JSON response into out. The contentType parameter allows JSON-patch
// bodies; pass "" for the default application/json. When out is nil the
// response body is discarded.
func (c *restClient) doJSON(ctx context.Context, method, endpoint, contentType string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRaw executes a GET request and returns the raw response bytes.
// Used for file-content fetches, where the payload may not be JSON.
func (c *restClient) doRaw(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// errorFromResponse reads a non-success response and classifies it.
// The raw body is preserved as error details for 400-class validation
// failures, where Azure DevOps returns the precise field complaint.
func errorFromResponse(resp *http.Response) *domain.DomainError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	message := extractAPIMessage(body)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return domain.ErrorFromStatusCode(resp.StatusCode, message, string(body))
}

// extractAPIMessage pulls the human-readable message out of an Azure DevOps
// error body. Returns "" when the body is not the standard error envelope.
func extractAPIMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
