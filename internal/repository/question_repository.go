package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) CreateBank(bank *model.QuestionBank) error {
	return r.DB.Create(bank).Error
}

func (r *QuestionRepository) FindBankByID(id uint) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	if err := r.DB.First(&bank, id).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *QuestionRepository) ListBanksByOwner(ownerID uint) ([]model.QuestionBank, error) {
	var banks []model.QuestionBank
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&banks).Error
	return banks, err
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByBank(bankID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("question_bank_id = ?", bankID).Order("created_at asc").Find(&qs).Error
	return qs, err
}

// LinkToQuiz 幂等挂题：已存在的关联直接返回，不报错也不产生重复行。
func (r *QuestionRepository) LinkToQuiz(quizID, questionID uint) error {
	var count int64
	if err := r.DB.Model(&model.QuizQuestion{}).
		Where("quiz_id = ? AND question_id = ?", quizID, questionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.DB.Create(&model.QuizQuestion{QuizID: quizID, QuestionID: questionID}).Error
}
