package repository

import (
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user record
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindBySubject finds the user record for an external subject id
func (r *GormUserRepository) FindBySubject(subjectID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("cognito_user_id = ?", subjectID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateProfile creates a user profile
func (r *GormUserRepository) CreateProfile(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// FindProfileBySubject finds the profile for an external subject id
func (r *GormUserRepository) FindProfileBySubject(subjectID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("user_id = ?", subjectID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates a user profile
func (r *GormUserRepository) UpdateProfile(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}
