package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/pkg/response"
)

type mailingListService interface {
	Status(ctx context.Context, email string) (*dto.MailingListStatus, error)
	OptOut(ctx context.Context, email string) (*dto.MailingListStatus, error)
	OptIn(ctx context.Context, email string) (*dto.MailingListStatus, error)
}

// AccountHandler serves the caller's own account and mailing list preferences.
type AccountHandler struct {
	mailingList mailingListService
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(mailingList mailingListService) *AccountHandler {
	return &AccountHandler{mailingList: mailingList}
}

// Me godoc
// @Summary Resolve the caller's account type
// @Tags Account
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account [get]
func (h *AccountHandler) Me(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, dto.AccountResponse{
		Email:       principal.Email,
		Name:        principal.Name,
		AccountType: principal.AccountType,
		CourseCodes: principal.CourseCodes,
	}, nil)
}

// MailingListStatus godoc
// @Summary Whether the caller has opted out of status emails
// @Tags Account
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account/mailing-list [get]
func (h *AccountHandler) MailingListStatus(c *gin.Context) {
	h.mailingListAction(c, h.mailingList.Status)
}

// OptOut godoc
// @Summary Stop receiving status emails
// @Tags Account
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account/mailing-list/opt-out [post]
func (h *AccountHandler) OptOut(c *gin.Context) {
	h.mailingListAction(c, h.mailingList.OptOut)
}

// OptIn godoc
// @Summary Resume receiving status emails
// @Tags Account
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account/mailing-list/opt-in [post]
func (h *AccountHandler) OptIn(c *gin.Context) {
	h.mailingListAction(c, h.mailingList.OptIn)
}

func (h *AccountHandler) mailingListAction(c *gin.Context, action func(context.Context, string) (*dto.MailingListStatus, error)) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	status, err := action(c.Request.Context(), principal.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
