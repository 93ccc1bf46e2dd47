package types

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session cookie
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
