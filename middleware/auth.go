package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

// AuthRequired verifies the bearer token and stores user id + role in the context.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			utils.JSONError(c, http.StatusUnauthorized, "auth.tokenMissing", nil)
			return
		}
		token := header
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			token = strings.TrimSpace(header[7:])
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			code := "auth.tokenInvalid"
			if services.KindOf(err) == services.KindUnauthorized {
				var ae *services.AppError
				if errors.As(err, &ae) {
					code = ae.Code
				}
				utils.JSONError(c, http.StatusUnauthorized, code, nil)
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "error.internal", nil)
			return
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

// RequireRoles must run after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "auth.forbidden", nil)
	}
}

// Actor reads the caller set by AuthRequired.
func Actor(c *gin.Context) services.Actor {
	return services.Actor{UserID: c.GetUint(CtxUserID), Role: c.GetString(CtxRole)}
}
