package repositories

import "github.com/SShahid97/marcos/internal/models"

// ProjectRepository defines the interface for project data access.
//
// Update and Delete are ownership-constrained: they only touch a project
// whose created_by matches ownerID, and report not-found otherwise, so a
// non-owner cannot tell an existing project from an absent one.
type ProjectRepository interface {
	Create(project *models.Project) error
	List(page, limit int, search string) ([]models.Project, int64, error)
	GetByID(id uint) (*models.Project, error)
	Update(id, ownerID uint, fields *models.Project) error
	Delete(id, ownerID uint) error
}
