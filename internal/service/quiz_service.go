package service

import (
	"context"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"time"

	"errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultDurationMinutes = 15
	codeRetryLimit         = 5
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	ClassRepo    *repository.ClassRepository
	AI           *AIService
	Redis        *redis.Client
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	classRepo *repository.ClassRepository,
	ai *AIService,
	rdb *redis.Client,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		ClassRepo:    classRepo,
		AI:           ai,
		Redis:        rdb,
	}
}

type QuestionInput struct {
	Text          string `json:"text" binding:"required"`
	OptionA       string `json:"optionA" binding:"required"`
	OptionB       string `json:"optionB" binding:"required"`
	OptionC       string `json:"optionC" binding:"required"`
	OptionD       string `json:"optionD" binding:"required"`
	CorrectOption string `json:"correctOption" binding:"required,oneof=a b c d"`
	Points        int    `json:"points"`
	Difficulty    string `json:"difficulty"`
}

type CreateQuizRequest struct {
	Name            string          `json:"name" binding:"required"`
	DurationMinutes int             `json:"durationMinutes"`
	StartTime       *time.Time      `json:"startTime"`
	EndTime         *time.Time      `json:"endTime"`
	Questions       []QuestionInput `json:"questions"`
}

func (in *QuestionInput) toModel() model.Question {
	points := in.Points
	if points <= 0 {
		points = 1
	}
	difficulty := model.Difficulty(in.Difficulty)
	if !difficulty.Valid() {
		difficulty = model.Medium
	}
	return model.Question{
		Text:          in.Text,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectOption: model.Option(in.CorrectOption),
		Points:        points,
		Difficulty:    difficulty,
	}
}

// CreateQuiz 创建测验及内嵌题目。加入码带冲突重试：
// 唯一索引才是真正的兜底，生成侧只降低碰撞概率。
func (s *QuizService) CreateQuiz(ownerID uint, req CreateQuizRequest) (*model.Quiz, error) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = defaultDurationMinutes
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i := range req.Questions {
		questions = append(questions, req.Questions[i].toModel())
	}

	var lastErr error
	for i := 0; i < codeRetryLimit; i++ {
		code, err := util.GenerateJoinCode(model.JoinCodeLength)
		if err != nil {
			return nil, err
		}

		quiz := &model.Quiz{
			Name:            req.Name,
			OwnerID:         ownerID,
			Active:          false,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			DurationMinutes: req.DurationMinutes,
			Code:            code,
		}

		// 每轮重试都重新挂新的题目实体，避免复用已写入的ID
		qs := make([]model.Question, len(questions))
		copy(qs, questions)

		err = s.QuizRepo.CreateWithQuestions(quiz, qs)
		if err == nil {
			return quiz, nil
		}
		if !util.IsDuplicateEntry(err) {
			return nil, err
		}
		lastErr = err
		logger.Log.Warn("join code collision, retrying", zap.String("code", code))
	}
	return nil, lastErr
}

func (s *QuizService) GetTeacherQuizzes(ownerID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByOwner(ownerID)
}

func (s *QuizService) getOwnedQuiz(ownerID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

func (s *QuizService) ToggleActive(ownerID, quizID uint, active bool) (*model.Quiz, error) {
	quiz, err := s.getOwnedQuiz(ownerID, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.QuizRepo.SetActive(quizID, active); err != nil {
		return nil, err
	}
	quiz.Active = active

	s.invalidateCodeCache(quiz.Code)

	return quiz, nil
}

// GetQuizQuestions 教师端题目列表，包含正确答案。
func (s *QuizService) GetQuizQuestions(ownerID, quizID uint) ([]model.Question, error) {
	if _, err := s.getOwnedQuiz(ownerID, quizID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListQuestions(quizID)
}

func (s *QuizService) CreateQuestionBank(ownerID uint, name, description string) (*model.QuestionBank, error) {
	bank := &model.QuestionBank{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.QuestionRepo.CreateBank(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *QuizService) ListQuestionBanks(ownerID uint) ([]model.QuestionBank, error) {
	return s.QuestionRepo.ListBanksByOwner(ownerID)
}

func (s *QuizService) AddQuestionToBank(ownerID, bankID uint, in QuestionInput) (*model.Question, error) {
	bank, err := s.QuestionRepo.FindBankByID(bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankNotFound
		}
		return nil, err
	}
	if bank.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}

	question := in.toModel()
	question.QuestionBankID = &bankID
	if err := s.QuestionRepo.Create(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) ListBankQuestions(ownerID, bankID uint) ([]model.Question, error) {
	bank, err := s.QuestionRepo.FindBankByID(bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankNotFound
		}
		return nil, err
	}
	if bank.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return s.QuestionRepo.ListByBank(bankID)
}

// LinkQuestionToQuiz 幂等挂题；重复挂同一题不是错误。
func (s *QuizService) LinkQuestionToQuiz(ownerID, quizID, questionID uint) error {
	quiz, err := s.getOwnedQuiz(ownerID, quizID)
	if err != nil {
		return err
	}

	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	if err := s.QuestionRepo.LinkToQuiz(quizID, questionID); err != nil {
		// 并发窗口下撞到唯一索引同样视为已挂上
		if util.IsDuplicateEntry(err) {
			return nil
		}
		return err
	}

	s.invalidateCodeCache(quiz.Code)
	return nil
}

func (s *QuizService) GenerateQuestions(topic string) ([]GeneratedQuestion, error) {
	return s.AI.GenerateQuestions(topic)
}

func (s *QuizService) invalidateCodeCache(code string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), quizCodeCacheKey(code)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate quiz code cache", zap.String("code", code), zap.Error(err))
	}
}
