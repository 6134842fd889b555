package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"azuredevops-mcp-server/internal/domain"
)

// mockWorkItemServer simulates the Azure DevOps work item tracking API.
func mockWorkItemServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		// GET work item by ID
		case r.Method == "GET" && r.URL.Path == "/_apis/wit/workitems/42":
			item := domain.WorkItem{
				ID:  42,
				Rev: 3,
				Fields: map[string]interface{}{
					"System.Title": "Fix login bug",
					"System.State": "Active",
				},
			}
			json.NewEncoder(w).Encode(item)

		// GET work item scoped to a project
		case r.Method == "GET" && r.URL.Path == "/Fabrikam/_apis/wit/workitems/42":
			item := domain.WorkItem{ID: 42, Fields: map[string]interface{}{"System.Title": "Scoped"}}
			json.NewEncoder(w).Encode(item)

		// GET missing work item
		case r.Method == "GET" && r.URL.Path == "/_apis/wit/workitems/999":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Work item 999 does not exist"}`))

		// GET batch of work items
		case r.Method == "GET" && r.URL.Path == "/_apis/wit/workitems":
			list := domain.WorkItemList{
				Count: 2,
				Value: []domain.WorkItem{
					{ID: 1, Fields: map[string]interface{}{"System.Title": "First"}},
					{ID: 2, Fields: map[string]interface{}{"System.Title": "Second"}},
				},
			}
			json.NewEncoder(w).Encode(list)

		// POST WIQL query
		case r.Method == "POST" && r.URL.Path == "/_apis/wit/wiql":
			result := domain.WorkItemQueryResult{
				QueryType: "flat",
				WorkItems: []domain.WorkItemReference{{ID: 1}, {ID: 2}},
			}
			json.NewEncoder(w).Encode(result)

		// POST create work item
		case r.Method == "POST" && r.URL.Path == "/Fabrikam/_apis/wit/workitems/$Bug":
			if ct := r.Header.Get("Content-Type"); ct != "application/json-patch+json" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"unexpected content type: ` + ct + `"}`))
				return
			}
			var ops []domain.JSONPatchOperation
			json.NewDecoder(r.Body).Decode(&ops)
			fields := make(map[string]interface{})
			for _, op := range ops {
				fields[strings.TrimPrefix(op.Path, "/fields/")] = op.Value
			}
			json.NewEncoder(w).Encode(domain.WorkItem{ID: 100, Rev: 1, Fields: fields})

		// PATCH update work item
		case r.Method == "PATCH" && r.URL.Path == "/_apis/wit/workitems/42":
			if ct := r.Header.Get("Content-Type"); ct != "application/json-patch+json" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"unexpected content type"}`))
				return
			}
			json.NewEncoder(w).Encode(domain.WorkItem{ID: 42, Rev: 4, Fields: map[string]interface{}{"System.State": "Closed"}})

		// POST add comment
		case r.Method == "POST" && r.URL.Path == "/Fabrikam/_apis/wit/workItems/42/comments":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(domain.WorkItemComment{ID: 7, WorkItemID: 42, Text: body["text"]})

		// GET comments
		case r.Method == "GET" && r.URL.Path == "/Fabrikam/_apis/wit/workItems/42/comments":
			list := domain.WorkItemCommentList{
				Count:    1,
				Comments: []domain.WorkItemComment{{ID: 7, WorkItemID: 42, Text: "looks good"}},
			}
			json.NewEncoder(w).Encode(list)

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"no route"}`))
		}
	}))
}

func TestGetWorkItem(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	item, err := client.GetWorkItem(context.Background(), "", 42, nil)
	if err != nil {
		t.Fatalf("GetWorkItem failed: %v", err)
	}

	if item.ID != 42 {
		t.Errorf("ID = %d, want 42", item.ID)
	}
	if item.Fields["System.Title"] != "Fix login bug" {
		t.Errorf("title = %v", item.Fields["System.Title"])
	}
}

func TestGetWorkItemScopedToProject(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	item, err := client.GetWorkItem(context.Background(), "Fabrikam", 42, nil)
	if err != nil {
		t.Fatalf("GetWorkItem failed: %v", err)
	}
	if item.Fields["System.Title"] != "Scoped" {
		t.Error("project-scoped path was not used")
	}
}

func TestGetWorkItemNotFound(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	_, err := client.GetWorkItem(context.Background(), "", 999, nil)
	if err == nil {
		t.Fatal("expected error for missing work item")
	}

	classified := domain.Classify(err)
	if classified.Kind != domain.KindResourceNotFound {
		t.Errorf("kind = %v, want KindResourceNotFound", classified.Kind)
	}
	if classified.Message != "Work item 999 does not exist" {
		t.Errorf("message = %q, want the API message", classified.Message)
	}
}

func TestGetWorkItemFieldsParameter(t *testing.T) {
	var receivedFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedFields = r.URL.Query().Get("fields")
		json.NewEncoder(w).Encode(domain.WorkItem{ID: 42})
	}))
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	_, err := client.GetWorkItem(context.Background(), "", 42, []string{"System.Title", "System.State"})
	if err != nil {
		t.Fatalf("GetWorkItem failed: %v", err)
	}

	if receivedFields != "System.Title,System.State" {
		t.Errorf("fields query = %q, want comma-joined reference names", receivedFields)
	}
}

func TestGetWorkItemsBatch(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	list, err := client.GetWorkItems(context.Background(), []int{1, 2}, nil)
	if err != nil {
		t.Fatalf("GetWorkItems failed: %v", err)
	}
	if list.Count != 2 || len(list.Value) != 2 {
		t.Errorf("list = %+v, want 2 items", list)
	}
}

func TestQueryByWiql(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	result, err := client.QueryByWiql(context.Background(), "", "SELECT [System.Id] FROM WorkItems", 50)
	if err != nil {
		t.Fatalf("QueryByWiql failed: %v", err)
	}
	if len(result.WorkItems) != 2 {
		t.Errorf("got %d references, want 2", len(result.WorkItems))
	}
}

func TestQueryByWiqlSendsTopAndBody(t *testing.T) {
	var receivedTop string
	var receivedQuery domain.WiqlQuery
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedTop = r.URL.Query().Get("$top")
		json.NewDecoder(r.Body).Decode(&receivedQuery)
		json.NewEncoder(w).Encode(domain.WorkItemQueryResult{})
	}))
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	_, err := client.QueryByWiql(context.Background(), "", "SELECT [System.Id] FROM WorkItems", 25)
	if err != nil {
		t.Fatalf("QueryByWiql failed: %v", err)
	}

	if receivedTop != "25" {
		t.Errorf("$top = %q, want 25", receivedTop)
	}
	if receivedQuery.Query != "SELECT [System.Id] FROM WorkItems" {
		t.Errorf("query body = %q", receivedQuery.Query)
	}
}

func TestCreateWorkItem(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	ops := []domain.JSONPatchOperation{
		{Op: "add", Path: "/fields/System.Title", Value: "New bug"},
	}
	item, err := client.CreateWorkItem(context.Background(), "Fabrikam", "Bug", ops)
	if err != nil {
		t.Fatalf("CreateWorkItem failed: %v", err)
	}

	if item.ID != 100 {
		t.Errorf("ID = %d, want 100", item.ID)
	}
	if item.Fields["System.Title"] != "New bug" {
		t.Errorf("title = %v, the patch document was not applied", item.Fields["System.Title"])
	}
}

func TestUpdateWorkItem(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	ops := []domain.JSONPatchOperation{
		{Op: "replace", Path: "/fields/System.State", Value: "Closed"},
	}
	item, err := client.UpdateWorkItem(context.Background(), 42, ops)
	if err != nil {
		t.Fatalf("UpdateWorkItem failed: %v", err)
	}
	if item.Rev != 4 {
		t.Errorf("rev = %d, want the incremented revision", item.Rev)
	}
}

func TestAddComment(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	comment, err := client.AddComment(context.Background(), "Fabrikam", 42, "please retest")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.Text != "please retest" {
		t.Errorf("text = %q", comment.Text)
	}
}

func TestListComments(t *testing.T) {
	server := mockWorkItemServer()
	defer server.Close()

	client := NewWorkItemClient(server.URL, server.Client())
	list, err := client.ListComments(context.Background(), "Fabrikam", 42)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if list.Count != 1 || list.Comments[0].Text != "looks good" {
		t.Errorf("list = %+v", list)
	}
}
