package service

import (
	"errors"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"

	"gorm.io/gorm"
)

type ClassService struct {
	ClassRepo *repository.ClassRepository
	QuizRepo  *repository.QuizRepository
	UserRepo  *repository.UserRepository
}

func NewClassService(
	classRepo *repository.ClassRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
) *ClassService {
	return &ClassService{
		ClassRepo: classRepo,
		QuizRepo:  quizRepo,
		UserRepo:  userRepo,
	}
}

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StudentIDs  []uint `json:"studentIds"`
}

// CreateClass 建班并批量选课，全有或全无。
func (s *ClassService) CreateClass(ownerID uint, req CreateClassRequest) (*model.Class, error) {
	if len(req.StudentIDs) > 0 {
		count, err := s.UserRepo.CountByIDs(req.StudentIDs)
		if err != nil {
			return nil, err
		}
		if int(count) != len(req.StudentIDs) {
			return nil, util.ErrStudentNotFound
		}
	}

	class := &model.Class{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.ClassRepo.CreateWithStudents(class, req.StudentIDs); err != nil {
		if util.IsDuplicateEntry(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return class, nil
}

func (s *ClassService) ListTeacherClasses(ownerID uint) ([]model.Class, error) {
	return s.ClassRepo.FindByOwner(ownerID)
}

func (s *ClassService) getOwnedClass(ownerID, classID uint) (*model.Class, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	if class.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return class, nil
}

// EnrollStudent 重复选课映射为业务冲突，唯一约束兜底。
func (s *ClassService) EnrollStudent(ownerID, classID, studentID uint) error {
	if _, err := s.getOwnedClass(ownerID, classID); err != nil {
		return err
	}

	if _, err := s.UserRepo.FindByID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStudentNotFound
		}
		return err
	}

	if err := s.ClassRepo.Enroll(classID, studentID); err != nil {
		if util.IsDuplicateEntry(err) {
			return util.ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

func (s *ClassService) ListClassStudents(ownerID, classID uint) ([]model.User, error) {
	if _, err := s.getOwnedClass(ownerID, classID); err != nil {
		return nil, err
	}
	return s.ClassRepo.ListStudents(classID)
}

// AssignQuizToClass 幂等分配；调用方必须同时拥有测验和班级。
func (s *ClassService) AssignQuizToClass(ownerID, quizID, classID uint) error {
	if _, err := s.getOwnedClass(ownerID, classID); err != nil {
		return err
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if quiz.OwnerID != ownerID {
		return util.ErrPermissionDenied
	}

	if err := s.QuizRepo.AssignToClass(quizID, classID); err != nil {
		if util.IsDuplicateEntry(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *ClassService) ListAssignedQuizzes(ownerID, classID uint) ([]model.Quiz, error) {
	if _, err := s.getOwnedClass(ownerID, classID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListAssignedToClass(classID)
}
