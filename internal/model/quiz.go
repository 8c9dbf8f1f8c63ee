package model

import "time"

// JoinCodeLength 加入码固定长度
const JoinCodeLength = 8

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Name            string     `gorm:"size:256;not null" json:"name"`
	OwnerID         uint       `gorm:"index;not null" json:"ownerId"`
	Active          bool       `gorm:"default:false" json:"active"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMinutes int        `gorm:"default:15" json:"durationMinutes"`
	Code            string     `gorm:"size:8;uniqueIndex;not null" json:"code"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// JoinableAt 判断测验在给定时间点是否可加入：
// active 为总开关；若设置了时间窗口，当前时间还必须落在 [StartTime, EndTime] 内。
func (q *Quiz) JoinableAt(now time.Time) bool {
	if !q.Active {
		return false
	}
	if q.StartTime != nil && now.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && now.After(*q.EndTime) {
		return false
	}
	return true
}

// QuizClass 测验-班级分配（唯一对）
type QuizClass struct {
	BaseModel
	QuizID  uint `gorm:"uniqueIndex:idx_quiz_class;not null" json:"quizId"`
	ClassID uint `gorm:"uniqueIndex:idx_quiz_class;not null" json:"classId"`
}

func (QuizClass) TableName() string {
	return "quiz_classes"
}
