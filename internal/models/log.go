package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit log actions. One row is appended for every state-changing operation.
const (
	ActionLogin                = "LOGIN"
	ActionLogout               = "LOGOUT"
	ActionSignedUp             = "SIGNED_UP"
	ActionApproveEmployee      = "APPROVE_EMPLOYEE"
	ActionVerifyEmployee       = "VERIFY_EMPLOYEE"
	ActionChangePassword       = "CHANGE_PASSWORD"
	ActionForgotPassword       = "FORGOT_PASSWORD"
	ActionResetPassword        = "RESET_PASSWORD"
	ActionUpdateHonorifics     = "UPDATE_HONORIFICS"
	ActionUpdateUserIntro      = "UPDATE_USER_INTRO"
	ActionUpdateResearchFields = "UPDATE_RESEARCH_FIELDS"
	ActionUpdateProfile        = "UPDATE_PROFILE"
	ActionArchiveEmployee      = "ARCHIVE_EMPLOYEE"
	ActionUnarchiveEmployee    = "UNARCHIVE_EMPLOYEE"
)

// Audit log statuses. "requested" marks a change awaiting admin review.
const (
	LogStatusSuccess   = "success"
	LogStatusFailed    = "failed"
	LogStatusRequested = "requested"
)

// Log is an append-only audit record. Rows are never updated or deleted.
type Log struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Action         string            `gorm:"size:64;not null;index" json:"action"`
	Actor          string            `gorm:"size:255;not null" json:"actor"`
	IsAdmin        bool              `gorm:"column:is_admin" json:"is_admin"`
	Status         string            `gorm:"size:16;not null;index" json:"status"`
	EmployeeNumber string            `gorm:"column:employee_number;size:64" json:"employee_number"`
	ActionDetails  string            `gorm:"column:action_details;type:text" json:"action_details,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// TableName uses the singular table name.
func (Log) TableName() string { return "log" }
