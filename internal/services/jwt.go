package services

import (
	"fmt"
	"sync"
	"time"

	"vela-casino/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// JWTService issues the session tokens handed out at login. Identity is the display
// name only; logging out revokes the session id until the token would have expired.
type JWTService struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}
}

func (s *JWTService) GenerateToken(username string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Username:  username,
		SessionID: models.GenerateSessionID(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.revoked[claims.SessionID]; ok {
		return nil, fmt.Errorf("session %s has been revoked", claims.SessionID)
	}
	return claims, nil
}

// Revoke invalidates a session until expiresAt.
func (s *JWTService) Revoke(sessionID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = expiresAt
}

// PruneRevoked drops revocations whose tokens have expired anyway.
func (s *JWTService) PruneRevoked(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
			n++
		}
	}
	return n
}
