package util

import (
	"crypto/rand"
	"math/big"
)

// 去掉易混淆的 0/O/1/I
const joinCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateJoinCode 生成定长测验加入码。唯一性由 quizzes.code 的
// 唯一索引兜底，调用方在冲突时重试。
func GenerateJoinCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(joinCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeCharset[n.Int64()]
	}
	return string(code), nil
}
