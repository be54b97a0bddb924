package repository

import (
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByID finds a todo by ID
func (r *GormTodoRepository) FindByID(id uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// List retrieves todos with filtering and pagination
func (r *GormTodoRepository) List(filter TodoFilter) ([]models.Todo, int64, error) {
	query := r.db.Model(&models.Todo{})

	// Todos are owner-scoped; the assigned-to filter swaps the scope to the
	// assignee instead.
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	} else {
		query = query.Where("user_id = ?", filter.SubjectID)
	}

	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.Done != nil {
		query = query.Where("done = ?", *filter.Done)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var todos []models.Todo
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// Update updates a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// Delete soft deletes a todo
func (r *GormTodoRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Todo{}, id).Error
}
