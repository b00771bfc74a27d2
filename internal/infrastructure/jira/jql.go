package jira

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

const jqlDateFormat = "2006-01-02"

// BuildJQL renders a domain filter to a JQL query. pointsFieldName is the
// human-readable name of the story points field for the points clause.
func BuildJQL(f workload.Filter, pointsFieldName string) string {
	var clauses []string

	if f.Project != "" {
		clauses = append(clauses, fmt.Sprintf("project = %q", f.Project))
	}

	switch {
	case f.UnassignedOnly:
		clauses = append(clauses, "assignee IS EMPTY")
	case f.AssignedOnly:
		clauses = append(clauses, "assignee IS NOT EMPTY")
	case f.AssigneeID != "":
		clauses = append(clauses, "assignee = "+f.AssigneeID)
	}

	switch len(f.Statuses) {
	case 0:
	case 1:
		clauses = append(clauses, fmt.Sprintf("status = %q", f.Statuses[0]))
	default:
		quoted := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		clauses = append(clauses, "status in ("+strings.Join(quoted, ", ")+")")
	}

	if !f.UpdatedFrom.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated >= %q", f.UpdatedFrom.Format(jqlDateFormat)))
	}
	if !f.UpdatedTo.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated <= %q", f.UpdatedTo.Format(jqlDateFormat)))
	}
	if f.CreatedWithinDays > 0 {
		clauses = append(clauses, fmt.Sprintf("created >= -%dd", f.CreatedWithinDays))
	}
	if f.RequireSprint {
		clauses = append(clauses, "Sprint IS NOT EMPTY")
	}
	if f.RequirePoints && pointsFieldName != "" {
		clauses = append(clauses, fmt.Sprintf("%q IS NOT EMPTY", pointsFieldName))
	}

	jql := strings.Join(clauses, " AND ")
	if f.OrderBy != "" {
		jql += " ORDER BY " + f.OrderBy
	}
	return jql
}
