package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hnthap/classgate/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	claimsKey = "student_claims"
	tokenKey  = "student_token"
)

// Claims is the classroom-issued token payload the portal trusts for
// identity. Sessions and answer mirrors are keyed by StudentID.
type Claims struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token against the shared classroom secret and
// stores the student identity plus the raw token (forwarded on every
// classroom API call) in the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Auth: token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		if claims.StudentID == "" {
			// Fall back to the registered subject for tokens minted by older
			// classroom versions.
			claims.StudentID = claims.Subject
		}
		if claims.StudentID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token carries no student identity"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// StudentID returns the authenticated student's identity.
func StudentID(c *gin.Context) string {
	if claims, ok := c.Get(claimsKey); ok {
		return claims.(*Claims).StudentID
	}
	return ""
}

// Token returns the raw bearer token to forward to the classroom API.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}
