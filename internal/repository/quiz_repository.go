package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateWithQuestions 测验与其题目在一个事务内落盘。
// questions 作为测验内嵌题目创建（不挂题库），并建立 quiz_questions 关联。
func (r *QuizRepository) CreateWithQuestions(quiz *model.Quiz, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			link := model.QuizQuestion{QuizID: quiz.ID, QuestionID: questions[i].ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByCode(code string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.Where("code = ?", code).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByOwner(ownerID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) SetActive(quizID uint, active bool) error {
	return r.DB.Model(&model.Quiz{}).Where("id = ?", quizID).Update("active", active).Error
}

// ListQuestions 返回测验的题目，按关联创建顺序稳定排序。
func (r *QuizRepository) ListQuestions(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Model(&model.Question{}).
		Joins("JOIN quiz_questions ON quiz_questions.question_id = questions.id AND quiz_questions.deleted_at IS NULL").
		Where("quiz_questions.quiz_id = ?", quizID).
		Order("quiz_questions.id asc").
		Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) AssignToClass(quizID, classID uint) error {
	return r.DB.Create(&model.QuizClass{QuizID: quizID, ClassID: classID}).Error
}

func (r *QuizRepository) ListAssignedToClass(classID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Model(&model.Quiz{}).
		Joins("JOIN quiz_classes ON quiz_classes.quiz_id = quizzes.id AND quiz_classes.deleted_at IS NULL").
		Where("quiz_classes.class_id = ?", classID).
		Find(&quizzes).Error
	return quizzes, err
}
