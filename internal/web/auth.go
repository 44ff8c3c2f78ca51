package web

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates bearer tokens gating write endpoints
// (corpus ingest, render), mirroring the teacher's web/auth.AuthService.
type AuthService struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewAuthService builds an AuthService signing HS256 tokens with secretKey.
func NewAuthService(secretKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{secretKey: []byte(secretKey), tokenTTL: tokenTTL}
}

// IssueToken mints a bearer token for clientID, the only claim write
// endpoints check.
func (s *AuthService) IssueToken(clientID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"client_id": clientID,
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secretKey)
}

// ValidateToken parses and verifies tokenString, returning the client ID.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	clientID, ok := claims["client_id"].(string)
	if !ok || clientID == "" {
		return "", fmt.Errorf("token missing client_id claim")
	}
	return clientID, nil
}

// HashPassword hashes an admin password for storage, rejecting anything
// over bcrypt's 72 byte limit.
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", fmt.Errorf("password exceeds maximum length of 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
