package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/logger"
)

// Moderator is the identity carried by an admin token.
type Moderator struct {
	Name  string
	Admin bool
}

type JwtService interface {
	NewToken(m Moderator) (string, error)
	DecodeToken(jwtStr string) (*Moderator, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(m Moderator) (string, error) {
	claims := jwt.MapClaims{}
	claims["sub"] = m.Name
	claims["admin"] = m.Admin
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("can't sign token: %w", err)
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Moderator, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		logger.Log.Debug("token rejected", "component", "jwt", "error", err)
		return nil, internal_errors.Unauthorized("Invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid access token")
	}
	name, _ := claims["sub"].(string)
	admin, _ := claims["admin"].(bool)
	return &Moderator{Name: name, Admin: admin}, nil
}
