package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateToken creates a signed HS256 token carrying the user's id, email
// and permission codes. Used by the mock API; the real backend issues its
// own tokens with the same claim layout.
func GenerateToken(secret []byte, subject, email string, permissions []string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":         subject,
		"email":       email,
		"permissions": permissions,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string against the secret.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// TokenClaims is the subset of claims the client cares about.
type TokenClaims struct {
	Subject     string
	Email       string
	Permissions []string
}

// DecodeClaims extracts claims from a token string without verifying the
// signature. The client holds no signing secret; the backend is the only
// party that verifies tokens, the client merely reads the permission set
// to decide what to render.
func DecodeClaims(tokenString string) (*TokenClaims, error) {
	parser := jwt.Parser{}
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	out := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if perms, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range perms {
			if code, ok := p.(string); ok {
				out.Permissions = append(out.Permissions, code)
			}
		}
	}
	return out, nil
}
