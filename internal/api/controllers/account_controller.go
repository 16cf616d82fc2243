package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cozyminds/internal/models/request_models"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	shopService    services.ShopServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface, shopService services.ShopServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
		shopService:    shopService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new user account and drop a welcome mail in its mailbox
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /accounts/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, account, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user, register the day's visit and return a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Login successful")
}

// Logout godoc
// @Summary Logout
// @Description Revoke the presented token until it expires
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	expiresAt, ok := c.Get("token_expires_at")
	exp, isTime := expiresAt.(time.Time)
	if !ok || !isTime {
		exp = time.Now().Add(24 * time.Hour)
	}

	a.accountService.Logout(c.GetString("token_id"), exp)
	utils.RespondSuccess(c, nil, "Logged out")
}

// GetMe godoc
// @Summary Current account
// @Description Fetch the caller's profile; the first fetch of a day grants the daily coins
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (a *AccountController) GetMe(c *gin.Context) {
	res, err := a.accountService.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Account fetched successfully")
}

// UpdateMe godoc
// @Summary Update profile
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [put]
func (a *AccountController) UpdateMe(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.accountService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Profile updated successfully")
}

func (a *AccountController) ChangePassword(c *gin.Context) {
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ChangePassword(c.Request.Context(), c.GetString("user_id"), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed successfully")
}

func (a *AccountController) VerifyPassword(c *gin.Context) {
	var req request_models.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	ok, err := a.accountService.VerifyPassword(c.Request.Context(), c.GetString("user_id"), req.Password)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"valid": ok}, "Password checked")
}

// DeleteMe godoc
// @Summary Delete account
// @Description Delete the caller's account together with its journals, inventory and mail
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [delete]
func (a *AccountController) DeleteMe(c *gin.Context) {
	if err := a.accountService.DeleteAccount(c.Request.Context(), c.GetString("user_id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// the token would otherwise stay valid for a deleted account
	if exp, ok := c.Get("token_expires_at"); ok {
		if t, isTime := exp.(time.Time); isTime {
			a.accountService.Logout(c.GetString("token_id"), t)
		}
	}

	utils.RespondSuccess(c, nil, "Account deleted successfully")
}

func (a *AccountController) ActivateTheme(c *gin.Context) {
	var req request_models.ActivateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.shopService.ActivateTheme(c.Request.Context(), c.GetString("user_id"), req.ItemID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Theme activated")
}

func (a *AccountController) ActivateMailTheme(c *gin.Context) {
	var req request_models.ActivateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.shopService.ActivateMailTheme(c.Request.Context(), c.GetString("user_id"), req.ItemID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Mail theme activated")
}
