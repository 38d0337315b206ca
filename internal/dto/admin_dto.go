package dto

import (
	"time"

	"github.com/team-mid/arcms-api/internal/models"
)

// EmployeeListRequest narrows admin employee list queries.
type EmployeeListRequest struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

// EmployeeListResponse is a paginated page of sanitized employees.
type EmployeeListResponse struct {
	Items      []EmployeeResponse `json:"employeesList"`
	Pagination PaginationMeta     `json:"pagination"`
}

// ApproveAllItem reports the outcome for one employee in a batch approval.
// Email delivery failures are isolated per item, never aggregate-fatal.
type ApproveAllItem struct {
	Employee       EmployeeResponse `json:"employee"`
	EmailDelivered bool             `json:"email_delivered"`
	Error          string           `json:"error,omitempty"`
}

// LogListRequest narrows audit log queries.
type LogListRequest struct {
	Page     int
	PageSize int
	Action   string
	Status   string
	Actor    string
}

// LogResponse is a single audit row.
type LogResponse struct {
	ID             uint           `json:"id"`
	Action         string         `json:"action"`
	Actor          string         `json:"actor"`
	IsAdmin        bool           `json:"is_admin"`
	Status         string         `json:"status"`
	EmployeeNumber string         `json:"employee_number"`
	ActionDetails  string         `json:"action_details,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewLogResponse maps an audit row to its response view.
func NewLogResponse(l models.Log) LogResponse {
	return LogResponse{
		ID:             l.ID,
		Action:         l.Action,
		Actor:          l.Actor,
		IsAdmin:        l.IsAdmin,
		Status:         l.Status,
		EmployeeNumber: l.EmployeeNumber,
		ActionDetails:  l.ActionDetails,
		Metadata:       l.Metadata,
		CreatedAt:      l.CreatedAt,
	}
}

// LogListResponse is a paginated page of audit rows.
type LogListResponse struct {
	Items      []LogResponse  `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
