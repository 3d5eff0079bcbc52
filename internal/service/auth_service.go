package service

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/easyq-blog/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenExpireHours = 24

// AuthService 管理员认证服务，口令与签名密钥在启动时注入
type AuthService struct {
	admin config.AdminConfig
	jwt   config.JWTConfig
	now   func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(admin config.AdminConfig, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		admin: admin,
		jwt:   jwtCfg,
		now:   time.Now,
	}
}

// AdminClaims 管理员令牌声明
type AdminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// HashPassword 使用 bcrypt 生成口令哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate 校验管理员口令并签发令牌
func (s *AuthService) Authenticate(password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, ErrPasswordRequired
	}
	if !s.verifyPassword(password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.GenerateJWT()
}

func (s *AuthService) verifyPassword(password string) bool {
	if hash := strings.TrimSpace(s.admin.PasswordHash); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	if s.admin.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
}

// GenerateJWT 签发管理员令牌
func (s *AuthService) GenerateJWT() (string, time.Time, error) {
	hours := s.jwt.ExpireHours
	if hours <= 0 {
		hours = defaultTokenExpireHours
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := AdminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwt.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken 校验签名、算法与有效期
func (s *AuthService) ParseToken(tokenString string) (*AdminClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwt.SecretKey), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || !claims.Admin {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
