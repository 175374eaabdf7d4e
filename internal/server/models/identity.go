package models

import "sort"

// Identity is the authenticated caller of a request together with the
// affiliations loaded for it.
type Identity struct {
	UserID       int64
	Role         Role
	Affiliations []Affiliation
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// AffiliatedWith reports whether the caller belongs to departmentID.
func (i *Identity) AffiliatedWith(departmentID int64) bool {
	for _, a := range i.Affiliations {
		if a.DepartmentID == departmentID {
			return true
		}
	}
	return false
}

// InSubDepartment reports whether one of the caller's affiliations pins
// subDepartmentID.
func (i *Identity) InSubDepartment(subDepartmentID int64) bool {
	for _, a := range i.Affiliations {
		if a.SubDepartmentID != nil && *a.SubDepartmentID == subDepartmentID {
			return true
		}
	}
	return false
}

// DepartmentIDs returns the distinct affiliated department ids in ascending order.
func (i *Identity) DepartmentIDs() []int64 {
	seen := make(map[int64]struct{}, len(i.Affiliations))
	ids := make([]int64, 0, len(i.Affiliations))
	for _, a := range i.Affiliations {
		if _, ok := seen[a.DepartmentID]; ok {
			continue
		}
		seen[a.DepartmentID] = struct{}{}
		ids = append(ids, a.DepartmentID)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
