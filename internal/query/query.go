// Package query holds read-only projections over directory, team and project
// state. Nothing here mutates its input.
package query

import (
	"sort"
	"strings"

	"github.com/EO-DataHub/eodhp-staff-directory/models"
)

// Search returns the people whose full name or department contains q,
// ignoring case. An empty query returns the input unchanged.
func Search(people []models.Person, q string) []models.Person {
	if q == "" {
		return people
	}
	needle := strings.ToLower(q)
	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Person, needle string) bool {
	if strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Department), needle)
}

// ByDepartment returns the people whose department equals dept exactly.
func ByDepartment(people []models.Person, dept string) []models.Person {
	out := make([]models.Person, 0)
	for _, p := range people {
		if p.Department == dept {
			out = append(out, p)
		}
	}
	return out
}

// Departments returns the distinct non-empty departments, sorted.
func Departments(people []models.Person) []string {
	seen := make(map[string]struct{})
	for _, p := range people {
		if p.Department == "" {
			continue
		}
		seen[p.Department] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DepartmentCounts returns the head count per department.
func DepartmentCounts(people []models.Person) map[string]int {
	counts := make(map[string]int)
	for _, p := range people {
		if p.Department == "" {
			continue
		}
		counts[p.Department]++
	}
	return counts
}

// Candidates returns people whose name contains q (case-insensitive), minus
// anyone in exclude. Used when picking project managers and members.
func Candidates(people []models.Person, q string, exclude ...string) []models.Person {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	needle := strings.ToLower(q)
	out := make([]models.Person, 0)
	for _, p := range people {
		if _, ok := skip[p.ID]; ok {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.FullName()), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsMember reports whether a person with the given id is in team.
func IsMember(team []models.Person, id string) bool {
	for _, p := range team {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ProjectsFor returns the projects where personID is the manager or a member,
// in list order.
func ProjectsFor(projects []models.Project, personID string) []models.Project {
	out := make([]models.Project, 0)
	for _, p := range projects {
		if p.Manager.ID == personID {
			out = append(out, p)
			continue
		}
		for _, m := range p.Members {
			if m.Person.ID == personID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
