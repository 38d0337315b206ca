package models

// Contact is the employee's published contact row, seeded with the signup
// email. Additional channels are managed outside the account workflow.
type Contact struct {
	ContactID  uint   `gorm:"column:contact_id;primaryKey" json:"contact_id"`
	EmployeeID uint   `gorm:"column:employee_id;index;not null" json:"employee_id"`
	Email      string `gorm:"size:255;not null" json:"email"`
}

// TableName uses the singular table name.
func (Contact) TableName() string { return "contact" }
