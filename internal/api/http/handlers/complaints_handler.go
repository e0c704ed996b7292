package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report/internal/api/dto"
	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/service"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints for citizens and officials.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /complaints. The request is a multipart form carrying
// the image file plus title, description, location, and optional
// latitude/longitude fields.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image upload required", nil)
	}
	f, err := file.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable image upload", nil)
	}
	defer f.Close()
	imageData, err := io.ReadAll(f)
	if err != nil {
		return apperrors.NewValidationError("unreadable image upload", nil)
	}

	input := service.SubmitInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		ImageName:   file.Filename,
		ImageData:   imageData,
		ImageRef:    c.FormValue("image_url"),
		Coordinates: parseCoordinates(c),
	}

	complaint, err := h.service.Submit(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintView(complaint)})
}

// ListMine handles GET /complaints/mine for the authenticated citizen.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaints := h.service.ForUser(principal.User.ID)
	return c.JSON(fiber.Map{"data": dto.NewComplaintViews(complaints)})
}

// ListForDepartment handles GET /complaints for the official's own
// department and GET /complaints/department/:code for an explicit one.
func (h *ComplaintsHandler) ListForDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil || !principal.User.IsGovernment() {
		return apperrors.NewForbidden("government account required")
	}

	code := c.Params("code")
	if code == "" {
		code = principal.User.Department
	}
	complaints, err := h.service.ForDepartment(domain.DepartmentCode(code))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintViews(complaints)})
}

// Update handles PATCH /complaints/:id with a partial update, including the
// resolution transition when status is resolved and resolvedImage is given.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.ComplaintUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		ResolvedImage: req.ResolvedImage,
	}
	if req.Status != nil {
		status := domain.ComplaintStatus(*req.Status)
		switch status {
		case domain.ComplaintStatusPending, domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved:
			input.Status = &status
		default:
			return apperrors.NewValidationError("unknown status", map[string]any{"status": *req.Status})
		}
	}

	if err := h.service.Update(c.Context(), principal.User, c.Params("id"), input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// Delete handles DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListDepartments handles GET /departments.
func (h *ComplaintsHandler) ListDepartments(c *fiber.Ctx) error {
	departments := domain.Departments()
	views := make([]dto.DepartmentView, 0, len(departments))
	for _, d := range departments {
		views = append(views, dto.DepartmentView{ID: string(d.Code), Name: d.Name})
	}
	return c.JSON(fiber.Map{"data": views})
}

func parseCoordinates(c *fiber.Ctx) *domain.Coordinates {
	latStr := c.FormValue("latitude")
	lngStr := c.FormValue("longitude")
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		return nil
	}
	return &domain.Coordinates{Latitude: lat, Longitude: lng}
}
