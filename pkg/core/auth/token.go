package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"my-blog-api/pkg/common/config"
)

// 令牌校验失败统一返回该错误，调用方无法区分
// 篡改/过期/格式非法，避免成为探测预言机
var ErrInvalidToken = errors.New("invalid token")

// 密码重置令牌的用途标记
const purposeReset = "password_reset"

// Claims 包含标准声明和自定义的用户身份声明
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
}

// TokenIssuer 签发与校验 JWT。签名密钥进程启动时注入，
// 生命周期内不变。无服务端吊销：令牌只能等过期失效
type TokenIssuer struct {
	secret     []byte
	issuer     string
	method     jwt.SigningMethod
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenIssuer(cfg *config.JWTAuthConfig) *TokenIssuer {
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		method:     method,
		sessionTTL: cfg.ExpireDuration,
		resetTTL:   cfg.ResetExpireDuration,
	}
}

// Issue 签发指定有效期的令牌
func (t *TokenIssuer) Issue(userID int64, username string, ttl time.Duration) (string, error) {
	return t.sign(Claims{
		RegisteredClaims: t.registered(ttl),
		UserID:           userID,
		Username:         username,
	})
}

// IssueSession 签发会话令牌（默认30天）
func (t *TokenIssuer) IssueSession(userID int64, username string) (string, error) {
	return t.Issue(userID, username, t.sessionTTL)
}

// IssueReset 签发密码重置令牌（默认1小时，带用途标记）
func (t *TokenIssuer) IssueReset(userID int64) (string, error) {
	return t.sign(Claims{
		RegisteredClaims: t.registered(t.resetTTL),
		UserID:           userID,
		Purpose:          purposeReset,
	})
}

func (t *TokenIssuer) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (t *TokenIssuer) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Verify 校验令牌的签名、结构与有效期，
// 任何失败统一折叠为 ErrInvalidToken
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tk *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyReset 校验密码重置令牌，会话令牌在此同样视为非法
func (t *TokenIssuer) VerifyReset(tokenString string) (*Claims, error) {
	claims, err := t.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
