package models

import (
	"time"

	"gorm.io/datatypes"
)

// Employee is an account holder whose profile is published on a business card.
//
// The lifecycle is: signed up (inactive, unapproved) -> approved by an admin
// (activation token issued) -> active once the activation link is followed.
// Archiving toggles IsActive without touching approval state.
//
// The honorifics, introduction and research-field columns are change-tracked:
// each has a shadow "old" column frozen at the last admin-acknowledged value
// and an edited flag that stays raised until an admin resets it.
type Employee struct {
	EmployeeID     uint   `gorm:"column:employee_id;primaryKey" json:"employee_id"`
	EmployeeNumber string `gorm:"column:employee_number;size:64;uniqueIndex;not null" json:"employee_number"`
	FirstName      string `gorm:"column:first_name;size:255;not null" json:"first_name"`
	MiddleName     string `gorm:"column:middle_name;size:255" json:"middle_name"`
	LastName       string `gorm:"column:last_name;size:255;not null" json:"last_name"`
	Honorifics     string `gorm:"column:honorifics;size:64" json:"honorifics"`
	Email          string `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"column:password;size:255;not null" json:"-"`

	Introduction string                      `gorm:"column:introduction;type:text" json:"introduction"`
	Field        datatypes.JSONSlice[string] `gorm:"column:field" json:"field"`
	Position     string                      `gorm:"column:position;size:128" json:"position"`
	DepartmentID *uint                       `gorm:"column:department_id" json:"department_id"`
	ImageID      *uint                       `gorm:"column:image_id" json:"image_id"`

	// Shadow columns: the value as of the last admin-acknowledged state.
	OldHonorifics   string                      `gorm:"column:oldHonorifics;size:64" json:"oldHonorifics"`
	OldIntroduction string                      `gorm:"column:oldIntroduction;type:text" json:"oldIntroduction"`
	OldField        datatypes.JSONSlice[string] `gorm:"column:oldField" json:"oldField"`
	HonorIsEdited   bool                        `gorm:"column:honorIsEdited" json:"honorIsEdited"`
	IntroIsEdited   bool                        `gorm:"column:introIsEdited" json:"introIsEdited"`
	FieldIsEdited   bool                        `gorm:"column:fieldIsEdited" json:"fieldIsEdited"`

	IsActive   bool `gorm:"column:isActive" json:"isActive"`
	IsApproved bool `gorm:"column:isApproved" json:"isApproved"`

	// Only the SHA-256 digest of a token is ever stored; the raw value is
	// transmitted once by email and never persisted.
	AccountVerificationToken   string     `gorm:"column:account_verification_token;size:64" json:"-"`
	VerificationExpirationDate *time.Time `gorm:"column:verification_expiration_date" json:"-"`
	PasswordResetToken         string     `gorm:"column:password_reset_token;size:64" json:"-"`
	TokenExpirationDate        *time.Time `gorm:"column:token_expiration_date" json:"-"`

	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

// TableName uses the singular table name.
func (Employee) TableName() string { return "employee" }

// FullName joins the name parts, skipping an empty middle name.
func (e Employee) FullName() string {
	if e.MiddleName == "" {
		return e.FirstName + " " + e.LastName
	}
	return e.FirstName + " " + e.MiddleName + " " + e.LastName
}
