package jira

import "encoding/json"

// User is a Jira account as returned by the user and search endpoints.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// IssueStatus is the status portion of an issue's fields.
type IssueStatus struct {
	Name string `json:"name"`
}

// IssueFields holds the well-known fields the engine reads.
type IssueFields struct {
	Summary  string      `json:"summary"`
	Status   IssueStatus `json:"status"`
	Assignee *User       `json:"assignee"`
}

// Issue is one search result. Custom fields (story points live in one)
// are kept raw and extracted by field ID.
type Issue struct {
	Key    string
	Fields IssueFields

	raw json.RawMessage
}

// Points extracts the numeric custom field carrying the point estimate.
// Missing or non-numeric values count as 0.
func (i Issue) Points(fieldID string) float64 {
	if len(i.raw) == 0 || fieldID == "" {
		return 0
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(i.raw, &all); err != nil {
		return 0
	}
	rawValue, ok := all[fieldID]
	if !ok {
		return 0
	}
	var v float64
	if err := json.Unmarshal(rawValue, &v); err != nil {
		return 0
	}
	return v
}

// Transition is one available workflow transition on an issue.
type Transition struct {
	ID string `json:"id"`
	To struct {
		Name string `json:"name"`
	} `json:"to"`
}

type searchResponse struct {
	Issues []struct {
		Key    string          `json:"key"`
		Fields json.RawMessage `json:"fields"`
	} `json:"issues"`
}

func (r searchResponse) decode() ([]Issue, error) {
	issues := make([]Issue, 0, len(r.Issues))
	for _, wire := range r.Issues {
		issue := Issue{Key: wire.Key, raw: wire.Fields}
		if len(wire.Fields) > 0 {
			if err := json.Unmarshal(wire.Fields, &issue.Fields); err != nil {
				return nil, err
			}
		}
		issues = append(issues, issue)
	}
	return issues, nil
}
