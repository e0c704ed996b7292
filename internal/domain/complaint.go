package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints. Transitions are
// unrestricted: a department may move a complaint between any two states,
// including reopening a resolved one.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

// Coordinates is an optional geotag captured at submission time.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Complaint is the aggregate for citizen-reported civic issues. ResolvedImage
// and ResolvedAt are set together when a department resolves the complaint
// and are absent otherwise.
type Complaint struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Location      string          `json:"location"`
	Status        ComplaintStatus `json:"status"`
	Department    DepartmentCode  `json:"department"`
	CreatedAt     time.Time       `json:"createdAt"`
	ResolvedImage string          `json:"resolvedImage,omitempty"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	Coordinates   *Coordinates    `json:"coordinates,omitempty"`
}

// Resolved reports whether the complaint carries resolution evidence.
func (c Complaint) Resolved() bool {
	return c.Status == ComplaintStatusResolved && c.ResolvedAt != nil
}
