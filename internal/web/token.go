package web

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims represents the console session token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and validates console session tokens. This guards
// the console's own endpoints only; the training backend has its own
// session handling.
type TokenService struct {
	secret       []byte
	username     string
	passwordHash string
	ttl          time.Duration
}

// NewTokenService returns configured token service.
func NewTokenService(secret, username, passwordHash string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret:       []byte(secret),
		username:     username,
		passwordHash: passwordHash,
		ttl:          ttl,
	}
}

// Authenticate checks operator credentials against the configured bcrypt
// hash and issues a token on success.
func (t *TokenService) Authenticate(username, password string) (string, error) {
	if username != t.username {
		return "", errors.New("web: invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.passwordHash), []byte(password)); err != nil {
		return "", errors.New("web: invalid credentials")
	}
	return t.generate(username)
}

func (t *TokenService) generate(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses and verifies a token string.
func (t *TokenService) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
