package directory

type listInput struct{}

type listOutput struct {
	Body ListResponse
}

// DepartmentGroups - отдел и его группы в порядке хранения.
type DepartmentGroups struct {
	Department string   `json:"department"`
	Groups     []string `json:"groups"`
}

type ListResponse struct {
	Departments []DepartmentGroups `json:"departments"`
	Status      string             `json:"status"`
}
