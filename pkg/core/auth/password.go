package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher 密码哈希器，bcrypt 每次调用生成随机盐，
// 同一明文两次哈希结果不同
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash 生成带盐哈希，明文不落库
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Check 校验密码。密码不匹配或摘要格式非法一律返回 false，
// 不产生错误（"密码错误"不是异常路径）
func (h *PasswordHasher) Check(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
