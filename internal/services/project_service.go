package services

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/repositories"
	"github.com/SShahid97/marcos/pkg/apperrors"
	"github.com/SShahid97/marcos/pkg/events"
)

// ProjectService handles business logic related to projects. All field
// constraints are enforced here, before anything reaches the repository.
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	validate    *validator.Validate
	mqClient    *events.Client
}

// NewProjectService creates a new ProjectService. mqClient may be nil, in
// which case lifecycle events are skipped.
func NewProjectService(projectRepo repositories.ProjectRepository, mqClient *events.Client) *ProjectService {
	v := validator.New()
	// Report errors under the JSON field names clients actually send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ProjectService{
		projectRepo: projectRepo,
		validate:    v,
		mqClient:    mqClient,
	}
}

// CreateProject validates and persists a new project owned by ownerID.
func (s *ProjectService) CreateProject(project *models.Project, ownerID uint) error {
	if err := s.validateProject(project); err != nil {
		return err
	}

	project.CreatedBy = ownerID
	if err := s.projectRepo.Create(project); err != nil {
		return err
	}

	s.publish("project.created", project)
	return nil
}

// ListProjects returns one page of projects plus the total project count.
func (s *ProjectService) ListProjects(page, limit int, search string) ([]models.Project, int64, error) {
	return s.projectRepo.List(page, limit, search)
}

// GetProjectByID retrieves a single project with its owner.
func (s *ProjectService) GetProjectByID(id uint) (*models.Project, error) {
	return s.projectRepo.GetByID(id)
}

// UpdateProject validates the replacement fields and applies them to a
// project owned by ownerID. A project owned by someone else is reported as
// not found.
func (s *ProjectService) UpdateProject(id, ownerID uint, fields *models.Project) error {
	if err := s.validateProject(fields); err != nil {
		return err
	}

	if err := s.projectRepo.Update(id, ownerID, fields); err != nil {
		return err
	}

	s.publish("project.updated", &models.Project{ID: id, CreatedBy: ownerID, Title: fields.Title})
	return nil
}

// DeleteProject soft-deletes a project owned by ownerID.
func (s *ProjectService) DeleteProject(id, ownerID uint) error {
	if err := s.projectRepo.Delete(id, ownerID); err != nil {
		return err
	}

	s.publish("project.deleted", &models.Project{ID: id, CreatedBy: ownerID})
	return nil
}

// validateProject enforces the per-field constraints: required text fields,
// a positive decimal price, a syntactically valid product URL, and non-null
// array fields (empty arrays are allowed, null is not).
func (s *ProjectService) validateProject(project *models.Project) error {
	if err := s.validate.Struct(project); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return apperrors.NewValidation(fieldMessage(validationErrors[0]))
	}

	for name, value := range map[string][]string{
		"productImage": project.ProductImage,
		"category":     project.Category,
		"tags":         project.Tags,
	} {
		if value == nil {
			return apperrors.NewValidation(fmt.Sprintf("%s cannot be null", name))
		}
	}
	return nil
}

// fieldMessage converts a validator error into the human-readable message
// the API returns for that field.
func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be null or empty", e.Field())
	case "url":
		return fmt.Sprintf("Invalid %s string", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

// publish sends a project lifecycle event. Publish failures are logged,
// never surfaced: the write already committed.
func (s *ProjectService) publish(eventType string, project *models.Project) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"projectId": project.ID,
		"createdBy": project.CreatedBy,
	}
	if project.Title != "" {
		payload["title"] = project.Title
	}
	if err := s.mqClient.Publish(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for project %d: %v", eventType, project.ID, err)
	}
}
