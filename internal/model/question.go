package model

// Option 选项标识，合法取值 a/b/c/d
type Option string

const (
	OptionA Option = "a"
	OptionB Option = "b"
	OptionC Option = "c"
	OptionD Option = "d"
)

func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// swagger:model QuestionBank
type QuestionBank struct {
	BaseModel
	Name        string `gorm:"size:256;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuestionBankID *uint      `gorm:"index" json:"questionBankId,omitempty"` // 测验内嵌题目无题库
	Text           string     `gorm:"size:1024;not null" json:"text"`
	OptionA        string     `gorm:"size:256;not null" json:"optionA"`
	OptionB        string     `gorm:"size:256;not null" json:"optionB"`
	OptionC        string     `gorm:"size:256;not null" json:"optionC"`
	OptionD        string     `gorm:"size:256;not null" json:"optionD"`
	CorrectOption  Option     `gorm:"size:1;not null" json:"correctOption"`
	Points         int        `gorm:"default:1" json:"points"`
	Difficulty     Difficulty `gorm:"size:10;default:'medium'" json:"difficulty"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionText 按选项标识取选项文本，替代 "option"+letter 的动态字段拼接。
func (q *Question) OptionText(o Option) (string, bool) {
	switch o {
	case OptionA:
		return q.OptionA, true
	case OptionB:
		return q.OptionB, true
	case OptionC:
		return q.OptionC, true
	case OptionD:
		return q.OptionD, true
	}
	return "", false
}

// QuizQuestion 题库题目挂入测验的关联（唯一对）
type QuizQuestion struct {
	BaseModel
	QuizID     uint `gorm:"uniqueIndex:idx_quiz_question;not null" json:"quizId"`
	QuestionID uint `gorm:"uniqueIndex:idx_quiz_question;not null" json:"questionId"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
