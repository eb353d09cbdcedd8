package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// GORMProjectRepository is a GORM implementation of ProjectRepository.
type GORMProjectRepository struct {
	db *gorm.DB
}

// NewGORMProjectRepository creates a new instance of GORMProjectRepository.
func NewGORMProjectRepository(db *gorm.DB) *GORMProjectRepository {
	return &GORMProjectRepository{
		db: db,
	}
}

// Create persists a new project. Associations are never written here: the
// owner is referenced by created_by only, so a populated User field cannot
// reassign ownership or touch the users table.
func (r *GORMProjectRepository) Create(project *models.Project) error {
	if err := r.db.Omit(clause.Associations).Create(project).Error; err != nil {
		return apperrors.NewInternal(fmt.Errorf("failed to create project: %w", err))
	}
	return nil
}

// List returns one page of projects ordered by most recently updated,
// optionally filtered by a case-insensitive substring match on the title,
// together with the total number of projects. The total deliberately ignores
// the search filter, matching the API's documented behavior.
func (r *GORMProjectRepository) List(page, limit int, search string) ([]models.Project, int64, error) {
	offset := limit * (page - 1)
	if offset < 0 {
		offset = 0
	}

	// Initialized so an empty page serializes as [] rather than null.
	projects := make([]models.Project, 0)
	err := r.db.
		Preload("User").
		Where(`lower(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%").
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, apperrors.NewInternal(fmt.Errorf("failed to list projects: %w", err))
	}

	var total int64
	if err := r.db.Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal(fmt.Errorf("failed to count projects: %w", err))
	}
	return projects, total, nil
}

// escapeLike escapes the LIKE wildcards in a search term so it matches as a
// literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// GetByID retrieves a single project with its owner eagerly loaded.
func (r *GORMProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("User").First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
		}
		return nil, apperrors.NewInternal(fmt.Errorf("failed to get project by ID %d: %w", id, err))
	}
	return &project, nil
}

// Update overwrites the writable fields of a project owned by ownerID and
// refreshes updated_at. The fetch and save run in one transaction so a save
// failure never leaves a half-applied update.
func (r *GORMProjectRepository) Update(id, ownerID uint, fields *models.Project) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ? AND created_by = ?", id, ownerID).Error; err != nil {
			return err
		}

		project.Title = fields.Title
		project.ProductImage = fields.ProductImage
		project.Price = fields.Price
		project.ShortDescription = fields.ShortDescription
		project.Description = fields.Description
		project.ProductURL = fields.ProductURL
		project.Category = fields.Category
		project.Tags = fields.Tags

		return tx.Save(&project).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
		}
		return apperrors.NewInternal(fmt.Errorf("failed to update project %d: %w", id, err))
	}
	return nil
}

// Delete soft-deletes a project owned by ownerID.
func (r *GORMProjectRepository) Delete(id, ownerID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ? AND created_by = ?", id, ownerID).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
		}
		return apperrors.NewInternal(fmt.Errorf("failed to delete project %d: %w", id, err))
	}
	return nil
}
