package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

// CreateWithStudents 建班并批量选课，整体一个事务：
// 任一学生入班失败则整单回滚，不残留空班级。
func (r *ClassRepository) CreateWithStudents(class *model.Class, studentIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(class).Error; err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return nil
		}
		enrollments := make([]model.ClassStudent, 0, len(studentIDs))
		for _, sid := range studentIDs {
			enrollments = append(enrollments, model.ClassStudent{
				ClassID:   class.ID,
				StudentID: sid,
			})
		}
		return tx.Create(&enrollments).Error
	})
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.DB.First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByOwner(ownerID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) Enroll(classID, studentID uint) error {
	return r.DB.Create(&model.ClassStudent{ClassID: classID, StudentID: studentID}).Error
}

func (r *ClassRepository) ListStudents(classID uint) ([]model.User, error) {
	var students []model.User
	err := r.DB.Model(&model.User{}).
		Joins("JOIN class_students ON class_students.student_id = users.id AND class_students.deleted_at IS NULL").
		Where("class_students.class_id = ?", classID).
		Order("users.name asc").
		Find(&students).Error
	return students, err
}

func (r *ClassRepository) IsStudentEnrolled(classID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}
