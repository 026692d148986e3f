package models

import "time"

// DefaultMemberRole is applied by callers when a member is picked without a role.
const DefaultMemberRole = "Developer"

// ProjectMember pairs a person with their free-text role on a project.
type ProjectMember struct {
	Person Person `json:"person"`
	Role   string `json:"role"`
}

// Project is a user-created grouping of a manager and role-tagged members.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Manager     Person          `json:"manager"`
	Members     []ProjectMember `json:"members"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProjectSpec is the input for creating a project.
type ProjectSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Manager     *Person         `json:"manager"`
	Members     []ProjectMember `json:"members"`
}

// ProjectsResponse holds a list of projects.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// ProjectResponse represents a response with a single project.
type ProjectResponse struct {
	Project Project `json:"project"`
}
