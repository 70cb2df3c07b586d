package middleware

import (
	"strings"

	"clinicsales/internal/config"
	"clinicsales/internal/core/domain"
	"clinicsales/internal/pkg/jwt"
	"clinicsales/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals("regionID", claims.RegionID)

		return c.Next()
	}
}

// ActingUser builds the engine identity from the authenticated request.
// Must run behind AuthMiddleware.
func ActingUser(c *fiber.Ctx) domain.ActingUser {
	user := domain.ActingUser{}

	if id, ok := c.Locals("userID").(uint); ok {
		user.ID = id
	}
	if role, ok := c.Locals("role").(string); ok {
		user.Role = domain.Role(role)
	}
	if regionID, ok := c.Locals("regionID").(*uint); ok {
		user.RegionID = regionID
	}

	return user
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("ADMIN")
}

// ApproverOnly middleware allows roles with any decision authority; the
// region check for regional managers happens in the transition authority,
// not here.
func ApproverOnly() fiber.Handler {
	return RoleMiddleware("ADMIN", "MANAGER", "REGIONAL_MANAGER")
}
