package repository

import (
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithSnapshot 创建作答记录并落盘题目快照，同一事务。
// snapshot 中的 AttemptID 由本方法回填；QuestionOrder 依据快照ID生成后更新。
func (r *AttemptRepository) CreateWithSnapshot(attempt *model.QuizAttempt, snapshot []model.AttemptQuestion, shuffle func([]uint) []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		ids := make([]uint, 0, len(snapshot))
		for i := range snapshot {
			snapshot[i].AttemptID = attempt.ID
			if err := tx.Create(&snapshot[i]).Error; err != nil {
				return err
			}
			ids = append(ids, snapshot[i].ID)
		}
		if shuffle != nil {
			ids = shuffle(ids)
		}
		attempt.QuestionOrder = model.EncodeQuestionOrder(ids)
		return tx.Model(&model.QuizAttempt{}).Where("id = ?", attempt.ID).
			Update("question_order", attempt.QuestionOrder).Error
	})
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) Update(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) ListSnapshot(attemptID uint) ([]model.AttemptQuestion, error) {
	var qs []model.AttemptQuestion
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id asc").Find(&qs).Error
	return qs, err
}

// UpsertResponse 单题作答：同一 (attempt, question) 后写覆盖先写。
func (r *AttemptRepository) UpsertResponse(attemptID, questionID uint, selected model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Response
		err := tx.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&model.Response{
				AttemptID:      attemptID,
				QuestionID:     questionID,
				SelectedOption: selected,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.SelectedOption = selected
		return tx.Save(&existing).Error
	})
}

func (r *AttemptRepository) ListResponses(attemptID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&responses).Error
	return responses, err
}

// Complete 终态迁移：判分结果与状态同一事务内原子落盘，responses 一并写入。
// 只对仍处于 in_progress 的行生效，并发重复交卷的后到者在这里被挡下，
// 已落盘的分数和结束时间不会被改写。
func (r *AttemptRepository) Complete(attempt *model.QuizAttempt, responses []model.Response) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.QuizAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":   attempt.Status,
				"score":    attempt.Score,
				"end_time": attempt.EndTime,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAttemptCompleted
		}
		for i := range responses {
			responses[i].AttemptID = attempt.ID
			var existing model.Response
			err := tx.Where("attempt_id = ? AND question_id = ?", attempt.ID, responses[i].QuestionID).
				First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				if err := tx.Create(&responses[i]).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			existing.SelectedOption = responses[i].SelectedOption
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttemptRepository) FindByQuizAndStudent(quizID, studentID uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListCompletedByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND status = ?", quizID, model.AttemptCompleted).
		Order("score desc").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&attempts).Error
	return attempts, err
}
