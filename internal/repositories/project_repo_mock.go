package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// MockProjectRepository is an in-memory implementation of ProjectRepository.
type MockProjectRepository struct {
	projects map[uint]models.Project
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProjectRepository creates a new instance of MockProjectRepository.
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		projects: make(map[uint]models.Project),
		nextID:   1,
	}
}

// Create adds a new project, assigning an autoincrement ID.
func (r *MockProjectRepository) Create(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = r.nextID
	r.nextID++
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	r.projects[project.ID] = *project
	return nil
}

// List returns one page of projects ordered by most recently updated, with
// the same offset and filter semantics as the GORM implementation.
func (r *MockProjectRepository) List(page, limit int, search string) ([]models.Project, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	offset := limit * (page - 1)
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], int64(len(r.projects)), nil
}

// GetByID returns a project by its ID.
func (r *MockProjectRepository) GetByID(id uint) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
	}
	return &project, nil
}

// Update overwrites the writable fields of a project owned by ownerID.
func (r *MockProjectRepository) Update(id, ownerID uint, fields *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok || project.CreatedBy != ownerID {
		return apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
	}

	project.Title = fields.Title
	project.ProductImage = fields.ProductImage
	project.Price = fields.Price
	project.ShortDescription = fields.ShortDescription
	project.Description = fields.Description
	project.ProductURL = fields.ProductURL
	project.Category = fields.Category
	project.Tags = fields.Tags
	project.UpdatedAt = time.Now()
	r.projects[id] = project
	return nil
}

// Delete removes a project owned by ownerID.
func (r *MockProjectRepository) Delete(id, ownerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok || project.CreatedBy != ownerID {
		return apperrors.NewNotFound(fmt.Sprintf("project with ID %d not found", id))
	}
	delete(r.projects, id)
	return nil
}
