package models

import "time"

type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferAccepted TransferStatus = "accepted"
	TransferDenied   TransferStatus = "denied"
)

// Transfer pushes a file to a single user or to a whole department. Exactly
// one of RecipientID and DepartmentID is set.
type Transfer struct {
	ID           int64          `json:"id"`
	FileID       int64          `json:"file_id"`
	FileName     string         `json:"file_name,omitempty"`
	SenderID     int64          `json:"sender_id"`
	SenderName   string         `json:"sender_name,omitempty"`
	RecipientID  *int64         `json:"recipient_id,omitempty"`
	DepartmentID *int64         `json:"department_id,omitempty"`
	Status       TransferStatus `json:"status"`
	SentAt       time.Time      `json:"time_sent"`
	ReceivedAt   *time.Time     `json:"time_received,omitempty"`
	AcceptedAt   *time.Time     `json:"time_accepted,omitempty"`
	DeniedAt     *time.Time     `json:"time_denied,omitempty"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// AccessRequest asks a file's owner for access.
type AccessRequest struct {
	ID            int64         `json:"id"`
	FileID        int64         `json:"file_id"`
	FileName      string        `json:"file_name,omitempty"`
	RequesterID   int64         `json:"requester_id"`
	RequesterName string        `json:"requester_name,omitempty"`
	OwnerID       int64         `json:"owner_id"`
	Status        RequestStatus `json:"status"`
	RequestedAt   time.Time     `json:"time_requested"`
	ApprovedAt    *time.Time    `json:"time_approved,omitempty"`
	RejectedAt    *time.Time    `json:"time_rejected,omitempty"`
}
