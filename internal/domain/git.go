package domain

// Repository represents an Azure DevOps git repository.
type Repository struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Project       *TeamProject `json:"project,omitempty"`
	DefaultBranch string       `json:"defaultBranch,omitempty"`
	Size          int64        `json:"size,omitempty"`
	RemoteURL     string       `json:"remoteUrl,omitempty"`
	WebURL        string       `json:"webUrl,omitempty"`
	IsDisabled    bool         `json:"isDisabled,omitempty"`
}

// RepositoryList is the envelope returned when listing repositories.
type RepositoryList struct {
	Count int          `json:"count"`
	Value []Repository `json:"value"`
}

// GitVersionDescriptor pins a git item read to a branch, tag, or commit.
type GitVersionDescriptor struct {
	Version     string `json:"version"`
	VersionType string `json:"versionType"` // "branch", "tag", "commit"
}
