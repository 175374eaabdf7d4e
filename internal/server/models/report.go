package models

import "time"

type DepartmentCount struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
	Users        int    `json:"users"`
}

type DailyCount struct {
	Day     time.Time `json:"day"`
	Uploads int       `json:"uploads"`
}

// AdminStats backs the admin dashboard.
type AdminStats struct {
	TotalUsers         int               `json:"total_users"`
	TotalFiles         int               `json:"total_files"`
	PendingRequests    int               `json:"pending_requests"`
	IncomingTransfers  int               `json:"incoming_transfers"`
	OutgoingTransfers  int               `json:"outgoing_transfers"`
	UsersPerDepartment []DepartmentCount `json:"users_per_department"`
	UploadTrend        []DailyCount      `json:"upload_trend"`
}

// Activity report row kinds.
const (
	ReportKindTransfer      = "transfer"
	ReportKindAccessRequest = "access_request"
)

type ActivityReportRow struct {
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	FromName  string    `json:"from"`
	ToName    string    `json:"to"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TypeCount struct {
	DocumentType string `json:"document_type"`
	Total        int    `json:"total"`
	Uploaded     int    `json:"uploaded"`
	Received     int    `json:"received"`
}

// UserReport summarises everything a user can see.
type UserReport struct {
	UserID         int64       `json:"user_id"`
	Total          int         `json:"total"`
	Uploaded       int         `json:"uploaded"`
	Received       int         `json:"received"`
	Hardcopy       int         `json:"hardcopy"`
	Softcopy       int         `json:"softcopy"`
	ByDocumentType []TypeCount `json:"by_document_type"`
}
