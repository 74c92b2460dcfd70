package jira

// Named is any JSON object carrying a name.
type Named struct {
	Name string `json:"name"`
}

// issuePayload represents the fixed-shape fields of GET /issue/{key}.
type issuePayload struct {
	Key    string `json:"key"`
	Fields struct {
		IssueType   Named        `json:"issuetype"`
		Status      Named        `json:"status"`
		Resolution  *Named       `json:"resolution"` // nullable
		Summary     string       `json:"summary"`
		Labels      []string     `json:"labels"`
		FixVersions []FixVersion `json:"fixVersions"`
		Subtasks    []struct {
			Key    string `json:"key"`
			Fields struct {
				IssueType Named `json:"issuetype"`
			} `json:"fields"`
		} `json:"subtasks"`
	} `json:"fields"`
}

// FixVersion is a version as set on an issue.
type FixVersion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Archived    bool   `json:"archived"`
	Released    bool   `json:"released"`
}

// Version is a project version.
type Version struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Released bool   `json:"released"`
}

// Project identifies a project.
type Project struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Ticket is the typed summary of one issue returned by LoadTicket.
type Ticket struct {
	Key         string
	IssueType   string
	Summary     string
	Status      string
	Resolution  string // "" when unresolved
	Labels      []string
	FixVersions []string
	Subtasks    []Subtask
}

// Subtask is a sub-ticket reference of a Ticket.
type Subtask struct {
	Key       string
	IssueType string
}
