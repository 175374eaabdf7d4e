package visibility

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type ScopeKind string

const (
	ScopePersonal      ScopeKind = "personal"
	ScopeDepartment    ScopeKind = "department"
	ScopeAllAccessible ScopeKind = "all"
)

// Scope is the visibility boundary of a listing. DepartmentID is only
// meaningful for ScopeDepartment.
type Scope struct {
	Kind         ScopeKind
	DepartmentID int64
}

func Personal() Scope { return Scope{Kind: ScopePersonal} }

func Department(id int64) Scope { return Scope{Kind: ScopeDepartment, DepartmentID: id} }

func AllAccessible() Scope { return Scope{Kind: ScopeAllAccessible} }

// ParseScope builds a scope from its query-string form. An empty kind
// means AllAccessible.
func ParseScope(kind string, departmentID int64) (Scope, error) {
	switch ScopeKind(strings.ToLower(kind)) {
	case "", ScopeAllAccessible:
		return AllAccessible(), nil
	case ScopePersonal:
		return Personal(), nil
	case ScopeDepartment:
		if departmentID <= 0 {
			return Scope{}, fmt.Errorf("%w: department scope requires a department id", common.ErrorValidation)
		}
		return Department(departmentID), nil
	default:
		return Scope{}, fmt.Errorf("%w: unknown scope %q", common.ErrorValidation, kind)
	}
}

// Direction restricts a listing by who uploaded the file.
type Direction string

const (
	DirectionAny          Direction = "any"
	DirectionUploadedByMe Direction = "uploaded-by-me"
	DirectionReceived     Direction = "received"
)

type SubDepartmentMode string

const (
	SubDepartmentAny            SubDepartmentMode = "any"
	SubDepartmentDepartmentWide SubDepartmentMode = "department-wide"
	SubDepartmentSpecific       SubDepartmentMode = "specific"
)

// SubDepartmentFilter selects files by their sub-department tag. ID is only
// read in SubDepartmentSpecific mode.
type SubDepartmentFilter struct {
	Mode SubDepartmentMode
	ID   int64
}

// Filters narrow a resolved listing. Zero values match everything.
type Filters struct {
	DocumentType  string
	Direction     Direction
	CopyKind      models.CopyKind
	SubDepartment SubDepartmentFilter
	NameContains  string
}

// Validate rejects enum values outside their domain.
func (f Filters) Validate() error {
	switch f.Direction {
	case "", DirectionAny, DirectionUploadedByMe, DirectionReceived:
	default:
		return fmt.Errorf("%w: invalid ownership direction %q", common.ErrorValidation, f.Direction)
	}

	switch f.CopyKind {
	case "", models.CopyKindAny, models.CopyKindHardcopy, models.CopyKindSoftcopy:
	default:
		return fmt.Errorf("%w: invalid copy kind %q", common.ErrorValidation, f.CopyKind)
	}

	switch f.SubDepartment.Mode {
	case "", SubDepartmentAny, SubDepartmentDepartmentWide:
	case SubDepartmentSpecific:
		if f.SubDepartment.ID <= 0 {
			return fmt.Errorf("%w: sub-department id is required", common.ErrorValidation)
		}
	default:
		return fmt.Errorf("%w: invalid sub-department filter %q", common.ErrorValidation, f.SubDepartment.Mode)
	}
	return nil
}
