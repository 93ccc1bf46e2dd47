package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"survey-server/sessions"
	"survey-server/types"
)

const sessionTokenIssuer = "survey-server"

// SessionTokenService signs session ids into cookie values so that a
// forged or tampered cookie is rejected before the store is consulted.
type SessionTokenService struct {
	secret []byte
}

// NewSessionTokenService creates a new session token service
func NewSessionTokenService(secret string) *SessionTokenService {
	return &SessionTokenService{secret: []byte(secret)}
}

// Sign produces the cookie value for a session
func (ts *SessionTokenService) Sign(s *sessions.Session) (string, error) {
	claims := &types.SessionClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    sessionTokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse validates a cookie value and returns the session id inside it
func (ts *SessionTokenService) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ts.secret, nil
	}, jwt.WithIssuer(sessionTokenIssuer))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*types.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session token claims")
	}
	return claims.SessionID, nil
}
