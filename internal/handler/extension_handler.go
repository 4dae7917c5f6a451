package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/response"
)

type extensionService interface {
	Grant(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (*models.Extension, error)
	Close(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (bool, error)
	Status(ctx context.Context, req dto.ExtensionRequest) (*dto.ExtensionStatusResponse, error)
	ListActive(ctx context.Context) ([]models.Extension, error)
	SweepExpired(ctx context.Context) (*dto.SweepResponse, error)
}

// ExtensionHandler exposes the extension registry.
type ExtensionHandler struct {
	extensions extensionService
}

// NewExtensionHandler constructs the handler.
func NewExtensionHandler(extensions extensionService) *ExtensionHandler {
	return &ExtensionHandler{extensions: extensions}
}

func bindExtensionKey(c *gin.Context) (dto.ExtensionRequest, bool) {
	var req dto.ExtensionRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return req, false
	}
	return req, true
}

// Grant godoc
// @Summary Grant a ten minute submission extension
// @Tags Extensions
// @Accept json
// @Produce json
// @Param payload body dto.ExtensionRequest true "Extension key"
// @Success 201 {object} response.Envelope
// @Router /extensions [post]
func (h *ExtensionHandler) Grant(c *gin.Context) {
	admin, ok := principalFromContext(c)
	if !ok {
		return
	}
	req, ok := bindExtensionKey(c)
	if !ok {
		return
	}
	ext, err := h.extensions.Grant(c.Request.Context(), admin, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ext)
}

// Close godoc
// @Summary Close an extension early
// @Tags Extensions
// @Accept json
// @Produce json
// @Param payload body dto.ExtensionRequest true "Extension key"
// @Success 200 {object} response.Envelope
// @Router /extensions/close [post]
func (h *ExtensionHandler) Close(c *gin.Context) {
	admin, ok := principalFromContext(c)
	if !ok {
		return
	}
	req, ok := bindExtensionKey(c)
	if !ok {
		return
	}
	closed, err := h.extensions.Close(c.Request.Context(), admin, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"closed": closed}, nil)
}

// Status godoc
// @Summary Extension status for a course and exam type
// @Tags Extensions
// @Produce json
// @Param courseCode query string true "Course code"
// @Param examType query string true "compre or midsem"
// @Success 200 {object} response.Envelope
// @Router /extensions/status [get]
func (h *ExtensionHandler) Status(c *gin.Context) {
	req, ok := bindExtensionKey(c)
	if !ok {
		return
	}
	status, err := h.extensions.Status(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// ListActive godoc
// @Summary List active extensions
// @Tags Extensions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /extensions [get]
func (h *ExtensionHandler) ListActive(c *gin.Context) {
	exts, err := h.extensions.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exts, nil)
}

// Sweep godoc
// @Summary Deactivate expired extensions
// @Tags Extensions
// @Produce json
// @Param X-Cron-Token header string false "Cron token"
// @Success 200 {object} response.Envelope
// @Router /extensions/cleanup [post]
func (h *ExtensionHandler) Sweep(c *gin.Context) {
	result, err := h.extensions.SweepExpired(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
