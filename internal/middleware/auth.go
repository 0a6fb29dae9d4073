package middleware

import (
	"net/http"
	"strings"

	"erp/internal/requestctx"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
)

// Auth holds the JWT settings shared by the route guards.
type Auth struct {
	secret  []byte
	enabled bool
}

// NewAuth builds the guards. When enabled is false RequireRole lets every request through.
func NewAuth(secret []byte, enabled bool) *Auth {
	return &Auth{secret: secret, enabled: enabled}
}

// Enabled reports whether role checks are enforced.
func (a *Auth) Enabled() bool {
	return a.enabled
}

func bearerToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func (a *Auth) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) string {
	userID, _ := claims["sub"].(string)
	userRole, _ := claims["role"].(string)
	c.Set("userID", userID)
	c.Set("userRole", userRole)
	c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), userID))
	return userRole
}

// Identify attaches the caller's identity when a valid token is present. It never rejects a request.
func (a *Auth) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := a.parse(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole validates the JWT token and checks the user's role is in allowedRoles
func (a *Auth) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing or malformed. Expected 'Bearer <token>'"))
			return
		}

		claims, err := a.parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		userRole := setIdentity(c, claims)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		if !lo.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}
