package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/team-mid/arcms-api/internal/models"
)

// EmployeeResponse is the sanitized employee view: credential and token
// columns are stripped before anything leaves the service layer.
type EmployeeResponse struct {
	EmployeeID     uint      `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	FirstName      string    `json:"first_name"`
	MiddleName     string    `json:"middle_name"`
	LastName       string    `json:"last_name"`
	Honorifics     string    `json:"honorifics"`
	Email          string    `json:"email"`
	Introduction   string    `json:"introduction"`
	Field          []string  `json:"field"`
	Position       string    `json:"position"`
	DepartmentID   *uint     `json:"department_id"`
	ImageID        *uint     `json:"image_id"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsApproved     bool      `json:"isApproved"`
	HonorIsEdited  bool      `json:"honorIsEdited"`
	IntroIsEdited  bool      `json:"introIsEdited"`
	FieldIsEdited  bool      `json:"fieldIsEdited"`
	DateCreated    time.Time `json:"date_created"`
}

// NewEmployeeResponse maps an employee row to its sanitized view.
func NewEmployeeResponse(e models.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:     e.EmployeeID,
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		MiddleName:     e.MiddleName,
		LastName:       e.LastName,
		Honorifics:     e.Honorifics,
		Email:          e.Email,
		Introduction:   e.Introduction,
		Field:          []string(e.Field),
		Position:       e.Position,
		DepartmentID:   e.DepartmentID,
		ImageID:        e.ImageID,
		IsActive:       e.IsActive,
		IsApproved:     e.IsApproved,
		HonorIsEdited:  e.HonorIsEdited,
		IntroIsEdited:  e.IntroIsEdited,
		FieldIsEdited:  e.FieldIsEdited,
		DateCreated:    e.DateCreated,
	}
}

// ResearchFieldList accepts the research-field tags in every shape clients
// submit them: a JSON array of strings, an array of {"value": …} tag
// objects, or a JSON-encoded string of either.
type ResearchFieldList []string

// UnmarshalJSON normalizes the accepted input shapes into a plain slice.
func (r *ResearchFieldList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*r = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		if strings.TrimSpace(encoded) == "" {
			*r = nil
			return nil
		}
		return r.UnmarshalJSON([]byte(encoded))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("research fields must be an array: %w", err)
	}

	values := make([]string, 0, len(raw))
	for _, item := range raw {
		var value string
		if err := json.Unmarshal(item, &value); err == nil {
			values = append(values, value)
			continue
		}

		var tag struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(item, &tag); err != nil {
			return fmt.Errorf("invalid research field entry: %w", err)
		}
		values = append(values, tag.Value)
	}

	*r = values
	return nil
}

// UpdateProfileRequest carries an employee profile edit. Names and the
// employee number are fixed at signup; only the reviewable fields and the
// profile image can change here.
type UpdateProfileRequest struct {
	Honorifics     string            `json:"honorifics"`
	Introduction   string            `json:"introduction"`
	ResearchFields ResearchFieldList `json:"researchFields"`
	ImageID        *uint             `json:"image_id"`
}

// UploadResponse is returned after a profile image upload.
type UploadResponse struct {
	ImageID   uint   `json:"image_id"`
	ImageURL  string `json:"image_url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}
