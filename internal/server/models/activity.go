package models

import "time"

// Activity is one row of a user's audit trail.
type Activity struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FileID    *int64    `json:"file_id,omitempty"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

// Activity actions.
const (
	ActionUpload           = "upload"
	ActionRename           = "rename"
	ActionDelete           = "delete"
	ActionCopy             = "copy"
	ActionSend             = "send"
	ActionAcceptTransfer   = "accept_transfer"
	ActionDenyTransfer     = "deny_transfer"
	ActionRequestAccess    = "request_access"
	ActionApproveRequest   = "approve_request"
	ActionRejectRequest    = "reject_request"
	ActionManageUser       = "manage_user"
	ActionManageDepartment = "manage_department"
)

type NotificationType string

const (
	NotificationReceived         NotificationType = "received"
	NotificationAccessRequest    NotificationType = "access_request"
	NotificationTransferAccepted NotificationType = "transfer_accepted"
	NotificationTransferDenied   NotificationType = "transfer_denied"
	NotificationRequestApproved  NotificationType = "request_approved"
	NotificationRequestRejected  NotificationType = "request_rejected"
)

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationProcessed NotificationStatus = "processed"
)

type Notification struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	FileID    *int64             `json:"file_id,omitempty"`
	Type      NotificationType   `json:"type"`
	Status    NotificationStatus `json:"status"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"timestamp"`
}
