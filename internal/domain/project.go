package domain

// TeamProject represents an Azure DevOps team project.
type TeamProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	URL         string `json:"url,omitempty"`
}

// TeamProjectList is the envelope returned when listing projects.
type TeamProjectList struct {
	Count int           `json:"count"`
	Value []TeamProject `json:"value"`
}
