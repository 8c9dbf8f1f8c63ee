package model

// swagger:model Class
type Class struct {
	BaseModel
	Name        string `gorm:"size:256;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassStudent 班级成员关联（唯一对）
type ClassStudent struct {
	BaseModel
	ClassID   uint `gorm:"uniqueIndex:idx_class_student;not null" json:"classId"`
	StudentID uint `gorm:"uniqueIndex:idx_class_student;not null" json:"studentId"`
}

func (ClassStudent) TableName() string {
	return "class_students"
}
