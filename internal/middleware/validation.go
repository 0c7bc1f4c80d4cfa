package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/models/dto"
)

// Context key of the body bound by ValidateRequest
const ContextValidatedBody = "validatedBody"

// ValidateRequest binds and validates the JSON body into a fresh T and stores it under
// ContextValidatedBody
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set(ContextValidatedBody, body)
		c.Next()
	}
}

// ValidatedBody returns the body bound by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	value, exists := c.Get(ContextValidatedBody)
	if !exists {
		return nil, false
	}
	body, ok := value.(*T)
	return body, ok
}

// ValidateQuery binds and validates the query string into a fresh T and stores it under
// ContextValidatedBody
func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := new(T)
		if err := c.ShouldBindQuery(query); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set(ContextValidatedBody, query)
		c.Next()
	}
}
