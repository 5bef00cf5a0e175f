package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/pkg/middleware"
)

// bindingError renders a 400 for a failed ShouldBindJSON. Field-level
// validation failures get a per-field errors map.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// pathID parses an ObjectID path parameter, rendering a 400 on malformed input.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// doctorID pulls the authenticated doctor set by the auth middleware.
// Handlers are only registered behind it, so a miss is a programming error.
func doctorID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.DoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing"})
		return primitive.NilObjectID, false
	}
	return id, true
}
