// Package models defines the typed records exchanged between the data-access
// layer, the services and the HTTP API.
package models

import "time"

// File is an archived document. Soft-deleted files keep their row with
// IsDeleted set.
type File struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	UploaderID        int64             `json:"uploader_id"`
	UploaderName      string            `json:"uploader_name,omitempty"`
	DocumentTypeID    *int64            `json:"document_type_id,omitempty"`
	DocumentType      string            `json:"document_type,omitempty"`
	DepartmentID      *int64            `json:"department_id,omitempty"`
	SubDepartmentID   *int64            `json:"sub_department_id,omitempty"`
	UploadedAt        time.Time         `json:"uploaded_at"`
	StoragePath       string            `json:"-"`
	HardCopyAvailable bool              `json:"hard_copy_available"`
	Size              int64             `json:"size"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	IsDeleted         bool              `json:"-"`
	CopyType          string            `json:"copy_type,omitempty"`
	CopiedFrom        *int64            `json:"copied_from,omitempty"`
}

// CopyKind classifies a file by the physical and digital copies it has.
type CopyKind string

const (
	CopyKindAny      CopyKind = "any"
	CopyKindHardcopy CopyKind = "hardcopy-only"
	CopyKindSoftcopy CopyKind = "softcopy-only"
	CopyKindHybrid   CopyKind = "hybrid"
	CopyKindNone     CopyKind = "none"
)

// CopyKind derives the kind from the hardcopy flag and storage path presence.
func (f *File) CopyKind() CopyKind {
	hasPath := f.StoragePath != ""
	switch {
	case f.HardCopyAvailable && !hasPath:
		return CopyKindHardcopy
	case !f.HardCopyAvailable && hasPath:
		return CopyKindSoftcopy
	case f.HardCopyAvailable && hasPath:
		return CopyKindHybrid
	default:
		return CopyKindNone
	}
}

// CopyTypeCopy marks files created by the make-copy action.
const CopyTypeCopy = "copy"

// OwnershipType is the standing a user holds on a file.
type OwnershipType string

const (
	OwnershipOriginal OwnershipType = "original"
	OwnershipCoOwner  OwnershipType = "co-owner"
)

// Provenance is the channel through which a caller came to see a file.
type Provenance string

const (
	ProvenanceUploaded            Provenance = "uploaded"
	ProvenanceCoOwned             Provenance = "co-owned"
	ProvenanceReceivedTransfer    Provenance = "accepted-transfer"
	ProvenanceReceivedRequest     Provenance = "approved-request"
	ProvenanceDepartmentWide      Provenance = "department-wide"
	ProvenanceSubDepartmentScoped Provenance = "sub-department-scoped"
)

// Rank orders provenances; lower wins when a file qualifies more than once.
func (p Provenance) Rank() int {
	switch p {
	case ProvenanceUploaded:
		return 0
	case ProvenanceCoOwned:
		return 1
	case ProvenanceReceivedTransfer:
		return 2
	case ProvenanceReceivedRequest:
		return 3
	case ProvenanceDepartmentWide, ProvenanceSubDepartmentScoped:
		return 4
	default:
		return 5
	}
}

// AnnotatedFile is one entry of a resolved listing.
type AnnotatedFile struct {
	File              File       `json:"file"`
	Provenance        Provenance `json:"provenance"`
	DepartmentContext *int64     `json:"department_context,omitempty"`
}

// UploadTicket tells the client where to PUT the digital copy of a newly
// registered file.
type UploadTicket struct {
	File      File   `json:"file"`
	UploadURL string `json:"upload_url,omitempty"`
}
