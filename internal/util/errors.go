package util

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrQuizNotFound     = errors.New("quiz not found or not joinable")
	ErrClassNotFound    = errors.New("class not found")
	ErrBankNotFound     = errors.New("question bank not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrStudentNotFound  = errors.New("student not found")

	ErrAttemptExists    = errors.New("quiz already attempted")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptCompleted = errors.New("attempt already completed")
	ErrAttemptExpired   = errors.New("attempt time window has expired")
	ErrAlreadyEnrolled  = errors.New("student already enrolled in this class")

	ErrGenerationFailed = errors.New("AI question generation returned malformed output")
)

// IsDuplicateEntry 判断是否违反 MySQL 唯一约束（errno 1062）。
// 唯一索引是并发写入的裁决点，冲突需映射为业务层的 Conflict，而不是内部错误。
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
