package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"azuredevops-mcp-server/internal/domain"
)

func mockCoreServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/_apis/projects":
			list := domain.TeamProjectList{
				Count: 2,
				Value: []domain.TeamProject{
					{ID: "p1", Name: "Fabrikam", State: "wellFormed"},
					{ID: "p2", Name: "Contoso", State: "wellFormed"},
				},
			}
			json.NewEncoder(w).Encode(list)

		case r.Method == "GET" && r.URL.Path == "/_apis/projects/Fabrikam":
			json.NewEncoder(w).Encode(domain.TeamProject{ID: "p1", Name: "Fabrikam", Visibility: "private"})

		case r.Method == "GET" && r.URL.Path == "/_apis/projects/Ghost":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"The project Ghost does not exist"}`))

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"no route"}`))
		}
	}))
}

func TestListProjects(t *testing.T) {
	server := mockCoreServer()
	defer server.Close()

	client := NewCoreClient(server.URL, server.Client())
	list, err := client.ListProjects(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if list.Count != 2 {
		t.Errorf("count = %d, want 2", list.Count)
	}
}

func TestListProjectsPagination(t *testing.T) {
	var receivedSkip, receivedTop string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedSkip = r.URL.Query().Get("$skip")
		receivedTop = r.URL.Query().Get("$top")
		json.NewEncoder(w).Encode(domain.TeamProjectList{})
	}))
	defer server.Close()

	client := NewCoreClient(server.URL, server.Client())
	if _, err := client.ListProjects(context.Background(), 10, 5); err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}

	if receivedSkip != "10" || receivedTop != "5" {
		t.Errorf("$skip = %q, $top = %q, want 10 and 5", receivedSkip, receivedTop)
	}
}

func TestGetProject(t *testing.T) {
	server := mockCoreServer()
	defer server.Close()

	client := NewCoreClient(server.URL, server.Client())
	project, err := client.GetProject(context.Background(), "Fabrikam")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if project.Name != "Fabrikam" {
		t.Errorf("name = %q", project.Name)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	server := mockCoreServer()
	defer server.Close()

	client := NewCoreClient(server.URL, server.Client())
	_, err := client.GetProject(context.Background(), "Ghost")
	if err == nil {
		t.Fatal("expected error for missing project")
	}
	if domain.Classify(err).Kind != domain.KindResourceNotFound {
		t.Errorf("kind = %v, want KindResourceNotFound", domain.Classify(err).Kind)
	}
}
