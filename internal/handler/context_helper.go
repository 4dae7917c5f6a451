package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/middleware"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/response"
)

// principalFromContext returns the caller or writes 401 and reports false.
func principalFromContext(c *gin.Context) (models.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return models.Principal{}, false
	}
	return *principal, true
}
