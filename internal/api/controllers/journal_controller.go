package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cozyminds/internal/models/request_models"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type JournalController struct {
	journalService services.JournalServiceInterface
}

func NewJournalController(journalService services.JournalServiceInterface) *JournalController {
	return &JournalController{
		journalService: journalService,
	}
}

// SaveJournal godoc
// @Summary Save a journal entry
// @Description Store a new entry and advance the writing streak
// @Tags Journals
// @Accept json
// @Produce json
// @Param request body request_models.SaveJournalRequest true "Journal entry"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journals [post]
func (j *JournalController) SaveJournal(c *gin.Context) {
	var req request_models.SaveJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := j.journalService.SaveJournal(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, res, "Journal saved successfully")
}

// ListJournals godoc
// @Summary List journals
// @Description Newest first, optionally restricted to one collection
// @Tags Journals
// @Produce json
// @Param collection query string false "Collection name"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size 1-100 (default 10)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journals [get]
func (j *JournalController) ListJournals(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	res, err := j.journalService.ListJournals(c.Request.Context(), c.GetString("user_id"), request_models.JournalListQuery{
		Collection: c.Query("collection"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Journals fetched successfully")
}

func (j *JournalController) RecentJournals(c *gin.Context) {
	res, err := j.journalService.RecentJournals(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Recent journals fetched successfully")
}

func (j *JournalController) GetJournal(c *gin.Context) {
	res, err := j.journalService.GetJournal(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Journal fetched successfully")
}

func (j *JournalController) UpdateJournal(c *gin.Context) {
	var req request_models.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := j.journalService.UpdateJournal(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Journal updated successfully")
}

func (j *JournalController) DeleteJournal(c *gin.Context) {
	if err := j.journalService.DeleteJournal(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Journal deleted successfully")
}

// DeleteCollection godoc
// @Summary Delete a collection
// @Description Remove the collection from every journal of the caller. "All" cannot be removed.
// @Tags Journals
// @Produce json
// @Param name path string true "Collection name"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journals/collections/{name} [delete]
func (j *JournalController) DeleteCollection(c *gin.Context) {
	res, err := j.journalService.DeleteCollection(c.Request.Context(), c.GetString("user_id"), c.Param("name"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Collection deleted successfully")
}
