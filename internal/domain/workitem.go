package domain

// WorkItem represents an Azure DevOps work item.
// Fields holds the reference-name keyed field values exactly as returned by
// the REST API (e.g. "System.Title", "System.State").
type WorkItem struct {
	ID     int                    `json:"id"`
	Rev    int                    `json:"rev,omitempty"`
	Fields map[string]interface{} `json:"fields"`
	URL    string                 `json:"url,omitempty"`
}

// WorkItemList is the envelope returned by batch work item reads.
type WorkItemList struct {
	Count int        `json:"count"`
	Value []WorkItem `json:"value"`
}

// WorkItemReference is a lightweight pointer to a work item,
// as returned by WIQL query results.
type WorkItemReference struct {
	ID  int    `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemQueryResult represents the result of a WIQL query.
// Only the work item references are returned; field data requires a
// follow-up batch read.
type WorkItemQueryResult struct {
	QueryType string              `json:"queryType,omitempty"`
	AsOf      string              `json:"asOf,omitempty"`
	WorkItems []WorkItemReference `json:"workItems"`
}

// WiqlQuery is the request body for a WIQL query.
type WiqlQuery struct {
	Query string `json:"query"`
}

// JSONPatchOperation is a single operation in a JSON-patch document.
// Work item create and update calls use the application/json-patch+json
// content type.
type JSONPatchOperation struct {
	Op    string      `json:"op"` // "add", "replace", "remove"
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// IdentityRef identifies an Azure DevOps user.
type IdentityRef struct {
	DisplayName string `json:"displayName,omitempty"`
	UniqueName  string `json:"uniqueName,omitempty"`
}

// WorkItemComment represents a comment on a work item.
type WorkItemComment struct {
	ID          int          `json:"id"`
	WorkItemID  int          `json:"workItemId,omitempty"`
	Text        string       `json:"text"`
	CreatedBy   *IdentityRef `json:"createdBy,omitempty"`
	CreatedDate string       `json:"createdDate,omitempty"`
}

// WorkItemCommentList is the envelope returned when listing comments.
type WorkItemCommentList struct {
	TotalCount int               `json:"totalCount"`
	Count      int               `json:"count"`
	Comments   []WorkItemComment `json:"comments"`
}
