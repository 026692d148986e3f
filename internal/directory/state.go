package directory

import (
	"hash/fnv"

	"github.com/EO-DataHub/eodhp-staff-directory/models"
)

// Status is the fetch status of the directory.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FirstPage is the cursor value of an empty directory.
const FirstPage = 1

const defaultErrorMessage = "Something went wrong"

// State is the directory slice. People is ordered by arrival and holds each
// identifier at most once.
type State struct {
	People []models.Person `json:"people"`
	Page   int             `json:"page"`
	Status Status          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// NewState returns the empty initial directory state.
func NewState() State {
	return State{People: []models.Person{}, Page: FirstPage, Status: StatusIdle}
}

func (s State) clone() State {
	out := s
	out.People = make([]models.Person, len(s.People))
	copy(out.People, s.People)
	return out
}

// Merge appends the incoming people that are not already present. When an
// identifier repeats, the first copy seen wins, including repeats within
// incoming itself.
func Merge(existing, incoming []models.Person) []models.Person {
	out := make([]models.Person, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, list := range [][]models.Person{existing, incoming} {
		for _, p := range list {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Departments assigned by HashAssigner.
var Departments = []string{"Engineering", "Sales", "Marketing", "HR"}

// DefaultJobTitle is assigned by HashAssigner.
const DefaultJobTitle = "Employee"

// Assigner derives the department and job title of a provider record.
type Assigner func(raw models.RawPerson) (department, jobTitle string)

// HashAssigner picks a department from the FNV-1a hash of the login
// identifier, so the same record always lands in the same department.
func HashAssigner(raw models.RawPerson) (string, string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(raw.Login.UUID))
	return Departments[h.Sum32()%uint32(len(Departments))], DefaultJobTitle
}

// Transform maps provider records onto people.
func Transform(raws []models.RawPerson, assign Assigner) []models.Person {
	if assign == nil {
		assign = HashAssigner
	}
	out := make([]models.Person, 0, len(raws))
	for _, r := range raws {
		dept, title := assign(r)
		out = append(out, models.Person{
			ID:          r.Login.UUID,
			FirstName:   r.Name.First,
			LastName:    r.Name.Last,
			Email:       r.Email,
			Phone:       r.Phone,
			City:        r.Location.City,
			Country:     r.Location.Country,
			AvatarLarge: r.Picture.Large,
			AvatarThumb: r.Picture.Thumbnail,
			JobTitle:    title,
			Department:  dept,
		})
	}
	return out
}
