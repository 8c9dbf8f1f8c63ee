package model

import (
	"strconv"
	"strings"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuizAttempt 一名学生对一个测验的一次限时作答。
// 登录学生按 (quiz_id, student_id) 唯一；游客按 (quiz_id, guest_key) 唯一，
// guest_key 仅游客写入（取昵称值），登录学生恒为 NULL，
// 因此不同学生在同一测验重名不互相冲突。
// 数据库唯一约束即为并发开始作答时的裁决点。
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID        uint          `gorm:"not null;uniqueIndex:idx_quiz_student;uniqueIndex:idx_quiz_guest" json:"quizId"`
	StudentID     *uint         `gorm:"uniqueIndex:idx_quiz_student" json:"studentId,omitempty"` // 游客为 NULL
	Nickname      string        `gorm:"size:50;not null" json:"nickname"`
	GuestKey      *string       `gorm:"size:50;uniqueIndex:idx_quiz_guest" json:"-"` // 登录学生为 NULL
	AccessToken   string        `gorm:"size:36;not null" json:"-"`
	StartTime     time.Time     `gorm:"not null" json:"startTime"`
	EndTime       time.Time     `gorm:"not null" json:"endTime"`
	Status        AttemptStatus `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	QuestionOrder string        `gorm:"size:1024;not null" json:"questionOrder"`
	Score         int           `gorm:"not null;default:0" json:"score"`
	IPAddress     string        `gorm:"size:45" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// OrderedQuestionIDs 解析 QuestionOrder 为快照题目ID序列。
func (a *QuizAttempt) OrderedQuestionIDs() []uint {
	if a.QuestionOrder == "" {
		return nil
	}
	parts := strings.Split(a.QuestionOrder, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

func EncodeQuestionOrder(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// AttemptQuestion 开始作答时落盘的题目快照，后续题库编辑不影响历史判分。
type AttemptQuestion struct {
	BaseModel
	AttemptID     uint   `gorm:"index;not null" json:"attemptId"`
	QuestionID    uint   `gorm:"index" json:"questionId"` // 来源题目
	Text          string `gorm:"size:1024;not null" json:"text"`
	OptionA       string `gorm:"size:256;not null" json:"optionA"`
	OptionB       string `gorm:"size:256;not null" json:"optionB"`
	OptionC       string `gorm:"size:256;not null" json:"optionC"`
	OptionD       string `gorm:"size:256;not null" json:"optionD"`
	CorrectOption Option `gorm:"size:1;not null" json:"correctOption"`
	Points        int    `gorm:"default:1" json:"points"`
}

func (AttemptQuestion) TableName() string {
	return "attempt_questions"
}

// Response 单题作答，同一 (attempt_id, question_id) 最多一条，后写覆盖先写。
type Response struct {
	BaseModel
	AttemptID      uint   `gorm:"uniqueIndex:idx_attempt_question;not null" json:"attemptId"`
	QuestionID     uint   `gorm:"uniqueIndex:idx_attempt_question;not null" json:"questionId"` // 快照题目ID
	SelectedOption Option `gorm:"size:1;not null" json:"selectedOption"`
}

func (Response) TableName() string {
	return "responses"
}
