package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/SShahid97/marcos/internal/middleware"
	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/services"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	projectService *services.ProjectService
	authService    *services.AuthService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, authService *services.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		authService:    authService,
	}
}

// RegisterRoutes registers the project routes with the Fiber app. Every
// project route requires authentication; creation is additionally gated to
// admins.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router) {
	projectRoutes := router.Group("/projects", middleware.AuthRequired(h.authService))
	projectRoutes.Post("/", middleware.RoleRequired(h.authService, models.RoleAdmin), h.HandleCreateProject)
	projectRoutes.Get("/", h.HandleListProjects)
	projectRoutes.Get("/:id", h.HandleGetProjectByID)
	projectRoutes.Patch("/:id", h.HandleUpdateProject)
	projectRoutes.Delete("/:id", h.HandleDeleteProject)
}

// ProjectRequest represents the writable project fields accepted on create
// and update. Binding this instead of the model keeps the id, ownership,
// timestamps, and the owner association system-assigned.
type ProjectRequest struct {
	Title            string   `json:"title"`
	IsFeatured       bool     `json:"isFeatured"`
	ProductImage     []string `json:"productImage"`
	Price            float64  `json:"price"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	ProductURL       string   `json:"productUrl"`
	Category         []string `json:"category"`
	Tags             []string `json:"tags"`
}

func (r *ProjectRequest) toModel() *models.Project {
	return &models.Project{
		Title:            r.Title,
		IsFeatured:       r.IsFeatured,
		ProductImage:     r.ProductImage,
		Price:            r.Price,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ProductURL:       r.ProductURL,
		Category:         r.Category,
		Tags:             r.Tags,
	}
}

// HandleCreateProject creates a new project owned by the authenticated user.
func (h *ProjectHandler) HandleCreateProject(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("Invalid request body")
	}

	project := req.toModel()
	if err := h.projectService.CreateProject(project, user.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  fiber.StatusCreated,
		"message": "Project created successfully",
		"data":    project,
	})
}

// HandleListProjects returns one page of projects. The page and limit query
// parameters are mandatory; search optionally filters by title.
func (h *ProjectHandler) HandleListProjects(c *fiber.Ctx) error {
	pageParam := c.Query("page")
	limitParam := c.Query("limit")
	if pageParam == "" || limitParam == "" {
		return apperrors.NewValidation("page and limit query parameters are required")
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil {
		return apperrors.NewValidation("page must be a number")
	}
	// A non-positive limit would disable the LIMIT clause entirely; page
	// values below 1 are clamped to the first page instead.
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit < 1 {
		return apperrors.NewValidation("limit must be a positive number")
	}

	projects, count, err := h.projectService.ListProjects(page, limit, c.Query("search"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Projects fetched successfully",
		"data": fiber.Map{
			"projects": projects,
			"count":    count,
		},
	})
}

// HandleGetProjectByID retrieves a single project with its owner.
func (h *ProjectHandler) HandleGetProjectByID(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProjectByID(id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Project fetched successfully",
		"data":    project,
	})
}

// HandleUpdateProject overwrites the writable fields of a project owned by
// the authenticated user. Returns a confirmation only, no body.
func (h *ProjectHandler) HandleUpdateProject(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	id, err := projectID(c)
	if err != nil {
		return err
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("Invalid request body")
	}

	if err := h.projectService.UpdateProject(id, user.ID, req.toModel()); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Project updated successfully",
	})
}

// HandleDeleteProject soft-deletes a project owned by the authenticated user.
func (h *ProjectHandler) HandleDeleteProject(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	id, err := projectID(c)
	if err != nil {
		return err
	}

	if err := h.projectService.DeleteProject(id, user.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Project deleted successfully",
	})
}

func projectID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, apperrors.NewValidation("Invalid project id")
	}
	return uint(id), nil
}
