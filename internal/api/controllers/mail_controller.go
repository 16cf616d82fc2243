package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cozyminds/internal/models/request_models"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type MailController struct {
	mailService services.IMailService
}

func NewMailController(mailService services.IMailService) *MailController {
	return &MailController{
		mailService: mailService,
	}
}

// ListMail godoc
// @Summary Mailbox
// @Description Mail addressed to the caller, newest first, with the caller's read flag
// @Tags Mail
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /mail [get]
func (m *MailController) ListMail(c *gin.Context) {
	mails, err := m.mailService.ListMail(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, mails, "Mail fetched successfully")
}

func (m *MailController) MarkRead(c *gin.Context) {
	if err := m.mailService.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Mail marked as read")
}

// DeleteMail godoc
// @Summary Delete mail for me
// @Description Remove the caller from the recipients; the mail disappears once nobody is left
// @Tags Mail
// @Produce json
// @Param id path string true "Mail ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /mail/{id} [delete]
func (m *MailController) DeleteMail(c *gin.Context) {
	if err := m.mailService.DeleteForRecipient(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Mail deleted successfully")
}

// Broadcast godoc
// @Summary Broadcast mail
// @Description Send one mail to every account
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.BroadcastMailRequest true "Mail content"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/mail/broadcast [post]
func (m *MailController) Broadcast(c *gin.Context) {
	var req request_models.BroadcastMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := m.mailService.Broadcast(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, res, "Broadcast sent")
}
