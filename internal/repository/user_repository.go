package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) ListStudents(teacherID uint) ([]model.User, error) {
	var students []model.User
	query := r.DB.Where("role = ?", model.Student)
	if teacherID > 0 {
		query = query.Where("teacher_id = ? OR teacher_id IS NULL", teacherID)
	}
	err := query.Order("name asc").Find(&students).Error
	return students, err
}

func (r *UserRepository) CountByIDs(ids []uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", gorm.Expr("CURRENT_TIMESTAMP(3)")).Error
}
