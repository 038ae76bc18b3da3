package middleware

import (
	"context"
	"net/http"
	"strings"

	jwt_internal "github.com/itchan-dev/chanengine/shared/jwt"
	"github.com/itchan-dev/chanengine/shared/logger"
	"github.com/itchan-dev/chanengine/shared/utils"

	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
)

// Key to store the moderator in the request context
type key int

const ModeratorKey key = 0

// Auth guards administrative routes (pin, lock, delete, reconcile, board creation).
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// AdminOnly rejects requests without a valid admin bearer token.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Missing access token"))
				return
			}
			m, err := a.jwtService.DecodeToken(token)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !m.Admin {
				logger.Log.Warn("non-admin token on admin route", "component", "auth", "sub", m.Name, "path", r.URL.Path)
				utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Admin access required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ModeratorKey, m)))
		})
	}
}

func GetModeratorFromContext(r *http.Request) *jwt_internal.Moderator {
	m, _ := r.Context().Value(ModeratorKey).(*jwt_internal.Moderator)
	return m
}
