package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/blacklist"
	"github.com/clinicdesk/clinicdesk/internal/tokens"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// ContextDoctorID is the Gin context key under which the authenticated
// doctor's ObjectID is stored.
const ContextDoctorID = "doctorID"

// AuthMiddleware returns a Gin middleware that verifies Bearer access tokens
// signed with secret. On success the doctor's id is placed in the context and
// forwarded on the request as X-Doctor-ID.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing"})
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		claims, err := tokens.VerifyAccessToken(secret, raw)
		if err != nil {
			if errors.Is(err, tokens.ErrExpired) {
				metrics.AuthFailures.WithLabelValues("expired").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
				return
			}
			metrics.AuthFailures.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		revoked, err := blacklist.Contains(c.Request.Context(), raw)
		if err != nil || revoked {
			metrics.AuthFailures.WithLabelValues("revoked").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		doctorID, err := primitive.ObjectIDFromHex(claims.DoctorID)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ContextDoctorID, doctorID)
		c.Request.Header.Set("X-Doctor-ID", claims.DoctorID)
		c.Next()
	}
}

// DoctorID extracts the authenticated doctor's id set by AuthMiddleware.
func DoctorID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(ContextDoctorID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
