package dto

import (
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
)

// ComplaintUpdateRequest is the partial update accepted from triage flows.
// Absent fields are left unchanged.
type ComplaintUpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Location      *string `json:"location,omitempty"`
	Status        *string `json:"status,omitempty"`
	ResolvedImage *string `json:"resolvedImage,omitempty"`
}

// ComplaintView mirrors the complaint wire shape.
type ComplaintView struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Image         string              `json:"image"`
	Location      string              `json:"location"`
	Status        string              `json:"status"`
	Department    string              `json:"department"`
	CreatedAt     time.Time           `json:"createdAt"`
	ResolvedImage string              `json:"resolvedImage,omitempty"`
	ResolvedAt    *time.Time          `json:"resolvedAt,omitempty"`
	Coordinates   *domain.Coordinates `json:"coordinates,omitempty"`
}

// NewComplaintView projects a domain complaint.
func NewComplaintView(c *domain.Complaint) ComplaintView {
	return ComplaintView{
		ID:            c.ID,
		UserID:        c.UserID,
		Title:         c.Title,
		Description:   c.Description,
		Image:         c.Image,
		Location:      c.Location,
		Status:        string(c.Status),
		Department:    string(c.Department),
		CreatedAt:     c.CreatedAt,
		ResolvedImage: c.ResolvedImage,
		ResolvedAt:    c.ResolvedAt,
		Coordinates:   c.Coordinates,
	}
}

// NewComplaintViews projects a slice preserving store order.
func NewComplaintViews(complaints []domain.Complaint) []ComplaintView {
	views := make([]ComplaintView, 0, len(complaints))
	for i := range complaints {
		views = append(views, NewComplaintView(&complaints[i]))
	}
	return views
}

// DepartmentView pairs a department code with its display name.
type DepartmentView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
