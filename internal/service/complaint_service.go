package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/classify"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/store"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// DepartmentRouter assigns a department from image evidence. Satisfied by
// classify.Client.
type DepartmentRouter interface {
	Route(ctx context.Context, filename string, image []byte) (domain.DepartmentCode, error)
}

// SubmitInput carries a citizen's new complaint. Exactly one of ImageRef or
// ImageData must be set; ImageData is also what gets classified.
type SubmitInput struct {
	Title       string
	Description string
	Location    string
	ImageName   string
	ImageData   []byte
	ImageRef    string
	Coordinates *domain.Coordinates
}

// UpdateInput is the partial update accepted from department flows.
type UpdateInput struct {
	Title         *string
	Description   *string
	Location      *string
	Status        *domain.ComplaintStatus
	ResolvedImage *string
}

// ComplaintService coordinates the complaint lifecycle: classification-routed
// creation, triage updates, resolution, and deletion.
type ComplaintService struct {
	complaints *store.ComplaintStore
	users      *store.UserStore
	router     DepartmentRouter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewComplaintService builds the service.
func NewComplaintService(complaints *store.ComplaintStore, users *store.UserStore, router DepartmentRouter, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
		router:     router,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit classifies the image, routes the complaint to a department, and
// creates the record. When classification yields no usable category the flow
// aborts and nothing is persisted.
func (s *ComplaintService) Submit(ctx context.Context, user *domain.User, input SubmitInput) (*domain.Complaint, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	if _, ok := s.users.GetByID(user.ID); !ok {
		return nil, apperrors.NewValidationError("unknown user", nil)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("title, description, location required", nil)
	}
	if len(input.ImageData) == 0 {
		return nil, apperrors.NewValidationError("image required", nil)
	}

	department, err := s.router.Route(ctx, input.ImageName, input.ImageData)
	if err != nil {
		s.metrics.RecordClassification("rejected")
		switch {
		case errors.Is(err, classify.ErrNoPrediction):
			return nil, apperrors.NewUnprocessable("NO_PREDICTION", "No class found in image.")
		case errors.Is(err, classify.ErrUnknownCategory):
			return nil, apperrors.NewUnprocessable("UNKNOWN_CATEGORY", "Unknown category. Please upload a clear image of a pothole or stray dog.")
		default:
			s.logger.Error("classifier call failed", zap.Error(err))
			return nil, apperrors.NewDomainError("CLASSIFIER_UNAVAILABLE", "Error uploading image or predicting department.", http.StatusBadGateway, nil)
		}
	}
	s.metrics.RecordClassification(string(department))

	image := input.ImageRef
	if image == "" {
		image = dataURI(input.ImageData)
	}

	complaint, err := s.complaints.Create(ctx, store.ComplaintCreateInput{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		Image:       image,
		Location:    input.Location,
		Department:  department,
		Coordinates: input.Coordinates,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.ComplaintCreatedPayload{
			Department: complaint.Department,
			Title:      complaint.Title,
			Location:   complaint.Location,
		},
	})
	return &complaint, nil
}

// Update merges triage fields into an existing complaint. Setting status to
// resolved together with a resolved image stamps the resolution timestamp so
// both resolution fields always appear together. A stale id is silently a
// no-op.
func (s *ComplaintService) Update(ctx context.Context, actor *domain.User, id string, input UpdateInput) error {
	if actor == nil || !actor.IsGovernment() {
		return apperrors.NewForbidden("government account required")
	}

	before, found := s.complaints.GetByID(id)

	update := store.ComplaintUpdate{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Status:      input.Status,
	}
	resolving := input.Status != nil && *input.Status == domain.ComplaintStatusResolved && input.ResolvedImage != nil
	if resolving {
		resolvedAt := s.now()
		update.ResolvedImage = input.ResolvedImage
		update.ResolvedAt = &resolvedAt
	}

	if err := s.complaints.Update(ctx, id, update); err != nil {
		return err
	}
	if !found {
		return nil
	}

	if resolving {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintResolved,
			ComplaintID: id,
			Actor:       events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.ComplaintResolvedPayload{
				Department:    before.Department,
				ResolvedImage: *input.ResolvedImage,
				ResolvedAt:    *update.ResolvedAt,
			},
		})
	} else if input.Status != nil && *input.Status != before.Status {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintStatusChanged,
			ComplaintID: id,
			Actor:       events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: *input.Status,
			},
		})
	}
	return nil
}

// Resolve marks a complaint resolved with after-fix evidence; the resolved
// image and timestamp are set together.
func (s *ComplaintService) Resolve(ctx context.Context, actor *domain.User, id, resolvedImage string) error {
	status := domain.ComplaintStatusResolved
	return s.Update(ctx, actor, id, UpdateInput{
		Status:        &status,
		ResolvedImage: &resolvedImage,
	})
}

// Delete removes a complaint. Missing ids are silently a no-op.
func (s *ComplaintService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil || !actor.IsGovernment() {
		return apperrors.NewForbidden("government account required")
	}

	before, found := s.complaints.GetByID(id)
	if err := s.complaints.Delete(ctx, id); err != nil {
		return err
	}
	if found {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintDeleted,
			ComplaintID: id,
			Actor:       events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload:     events.ComplaintDeletedPayload{Department: before.Department},
		})
	}
	return nil
}

// ForUser lists complaints owned by the given user, in store order.
func (s *ComplaintService) ForUser(userID string) []domain.Complaint {
	return s.complaints.ByUser(userID)
}

// ForDepartment lists complaints routed to the given department.
func (s *ComplaintService) ForDepartment(code domain.DepartmentCode) ([]domain.Complaint, error) {
	if !domain.ValidDepartment(code) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": string(code)})
	}
	return s.complaints.ByDepartment(code), nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// dataURI encodes uploaded image bytes the way the web client previews them.
func dataURI(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
