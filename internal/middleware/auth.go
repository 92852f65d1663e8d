package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"github.com/habarupress/core/internal/pkg/jwt"
	"github.com/habarupress/core/internal/pkg/response"
	sessionpkg "github.com/habarupress/core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	ContextKeyRole   = "user_role"
)

// Auth returns a middleware that enforces JWT authentication.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, role, err := validateToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		setIdentity(c, db, claims, role)
		c.Next()
	}
}

// OptionalAuth sets the caller's identity if a valid token is present, but
// never blocks the request. Listing endpoints rely on this to decide between
// public and admin visibility.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, role, err := validateToken(db, extractToken(c)); err == nil {
			setIdentity(c, db, claims, role)
		}
		c.Next()
	}
}

// RequireAdmin blocks non-admin callers. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != access.RoleAdmin {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, db *gorm.DB, claims *jwt.Claims, role access.Role) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyRole, role)
	if claims.SessionID != "" {
		c.Set(ContextKeySID, claims.SessionID)
		sessionpkg.Touch(db, claims.UserID, claims.SessionID)
	}
}

// validateToken parses the JWT, checks the backing session, and loads the
// user's stored role.
func validateToken(db *gorm.DB, rawToken string) (*jwt.Claims, access.Role, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, access.RoleAnonymous, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, access.RoleAnonymous, err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, access.RoleAnonymous, err
	}
	if !active {
		return nil, access.RoleAnonymous, errors.New("session expired or revoked")
	}

	var row struct{ Role string }
	err = db.Model(&models.UserModel{}).
		Select("role").
		Where("id = ?", claims.UserID).
		Scan(&row).Error
	if err != nil {
		return nil, access.RoleAnonymous, err
	}
	if row.Role == "" {
		return nil, access.RoleAnonymous, errors.New("user not found")
	}
	return claims, access.RoleOf(row.Role), nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// CurrentRole returns the caller's role; anonymous when unauthenticated.
func CurrentRole(c *gin.Context) access.Role {
	v, ok := c.Get(ContextKeyRole)
	if !ok {
		return access.RoleAnonymous
	}
	role, ok := v.(access.Role)
	if !ok {
		return access.RoleAnonymous
	}
	return role
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
