package models

// DepartmentType distinguishes top-level units from their sub-units.
type DepartmentType string

const (
	DepartmentCollege DepartmentType = "college"
	DepartmentOffice  DepartmentType = "office"
	DepartmentSub     DepartmentType = "sub_department"
)

// TopLevel reports whether t names a college or an office.
func (t DepartmentType) TopLevel() bool {
	return t == DepartmentCollege || t == DepartmentOffice
}

// Department is a college, an office, or a sub-department of either.
// Sub-departments always carry ParentID.
type Department struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Type           DepartmentType `json:"type"`
	ParentID       *int64         `json:"parent_id,omitempty"`
	SubDepartments []Department   `json:"sub_departments,omitempty"`
}

// Affiliation ties a user to a department and optionally pins one of its
// sub-departments.
type Affiliation struct {
	DepartmentID      int64  `json:"department_id"`
	DepartmentName    string `json:"department_name,omitempty"`
	SubDepartmentID   *int64 `json:"sub_department_id,omitempty"`
	SubDepartmentName string `json:"sub_department_name,omitempty"`
}

// DepartmentUsage counts the rows that keep a department from being deleted.
type DepartmentUsage struct {
	SubDepartments int
	Users          int
	Files          int
}

// InUse reports whether anything still references the department.
func (u DepartmentUsage) InUse() bool {
	return u.SubDepartments > 0 || u.Users > 0 || u.Files > 0
}
