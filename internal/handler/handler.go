// Package handler contains the HTTP endpoints. Handlers decode requests,
// call a service, and write the shared response envelope; every business
// decision lives in the service layer.
package handler

import (
	"net/http"

	"fashion-shop/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, model.Response{Success: true, Message: message, Data: data})
}

// respondPage writes a success envelope with pagination metadata.
func respondPage(c *gin.Context, data any, pagination *model.Pagination) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: data, Pagination: pagination})
}

// fail maps an error onto the envelope. Domain errors carry their own
// status and message; anything else is a 500 with a generic message.
func fail(c *gin.Context, err error, logger zerolog.Logger) {
	if de, ok := model.AsDomainError(err); ok {
		c.JSON(de.HTTPStatus(), model.Response{Success: false, Error: de.Message})
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("handler error")
	c.JSON(http.StatusInternalServerError, model.Response{Success: false, Error: "internal server error"})
}

// pathUUID parses a UUID path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, model.NewValidationError("invalid %s", name)
	}
	return id, nil
}

// bindJSON decodes the request body, mapping failures to a validation error.
func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return model.NewValidationError("invalid request body: %s", err.Error())
	}
	return nil
}
