package models

// DirectoryResponse is the presentation view of the directory slice.
type DirectoryResponse struct {
	Status   string   `json:"status"`
	NextPage int      `json:"nextPage"`
	Error    string   `json:"error,omitempty"`
	Total    int      `json:"total"`
	People   []Person `json:"people"`
}

// TeamResponse holds the favourited people.
type TeamResponse struct {
	Members []Person `json:"members"`
}

// DepartmentsResponse lists departments with their head counts.
type DepartmentsResponse struct {
	Departments []Department `json:"departments"`
}

type Department struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
