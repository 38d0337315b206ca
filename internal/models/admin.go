package models

import "time"

// Admin is a reviewer account kept in its own table. Employee numbers share a
// namespace with employees, so signup uniqueness is checked against both.
type Admin struct {
	AdminID        uint      `gorm:"column:admin_id;primaryKey" json:"admin_id"`
	EmployeeNumber string    `gorm:"column:employee_number;size:64;uniqueIndex;not null" json:"employee_number"`
	FirstName      string    `gorm:"column:first_name;size:255;not null" json:"first_name"`
	MiddleName     string    `gorm:"column:middle_name;size:255" json:"middle_name"`
	LastName       string    `gorm:"column:last_name;size:255;not null" json:"last_name"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"column:password;size:255;not null" json:"-"`
	IsActive       bool      `gorm:"column:isActive" json:"isActive"`
	DateCreated    time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

// TableName uses the singular table name.
func (Admin) TableName() string { return "admin" }
