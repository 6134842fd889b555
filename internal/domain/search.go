package domain

// Code-search filter keys understood by the Azure DevOps search service.
// FilterProject is injected implicitly whenever a project scope is supplied.
const (
	FilterProject     = "Project"
	FilterRepository  = "Repository"
	FilterPath        = "Path"
	FilterBranch      = "Branch"
	FilterCodeElement = "CodeElement"
)

// CodeSearchRequest is the request body for the code-search endpoint.
// The field names and shape are wire-exact: POST
// {searchText, $skip, $top, filters, includeFacets, includeSnippet?}.
type CodeSearchRequest struct {
	SearchText     string              `json:"searchText"`
	Skip           int                 `json:"$skip"`
	Top            int                 `json:"$top"`
	Filters        map[string][]string `json:"filters,omitempty"`
	IncludeFacets  bool                `json:"includeFacets"`
	IncludeSnippet *bool               `json:"includeSnippet,omitempty"`
}

// CodeSearchResponse is the response envelope from the code-search endpoint.
type CodeSearchResponse struct {
	Count   int                `json:"count"`
	Results []CodeSearchResult `json:"results"`
}

// CodeSearchResult is a single code-search hit. Content is empty until the
// enrichment step successfully fetches the file body; when a fetch fails,
// Content simply stays empty for that result. That is a valid terminal
// state, not an error.
type CodeSearchResult struct {
	FileName   string                       `json:"fileName"`
	Path       string                       `json:"path"`
	Repository CodeSearchRepository         `json:"repository"`
	Project    CodeSearchProject            `json:"project"`
	Versions   []CodeSearchVersion          `json:"versions,omitempty"`
	Matches    map[string][]CodeSearchMatch `json:"matches,omitempty"`
	Content    string                       `json:"content,omitempty"`
}

// CodeSearchRepository identifies the repository a search hit belongs to.
type CodeSearchRepository struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// CodeSearchProject identifies the project a search hit belongs to.
type CodeSearchProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CodeSearchVersion identifies the branch and change a search hit was
// indexed at. The enrichment step uses the branch name as the version
// reference for the content fetch.
type CodeSearchVersion struct {
	BranchName string `json:"branchName"`
	ChangeID   string `json:"changeId,omitempty"`
}

// CodeSearchMatch is a single match location within a file, keyed in
// CodeSearchResult.Matches by field ("content", "fileName").
type CodeSearchMatch struct {
	CharOffset int    `json:"charOffset"`
	Length     int    `json:"length"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Type       string `json:"type,omitempty"`
}
