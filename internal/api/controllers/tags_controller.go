package controllers

import (
	"github.com/gin-gonic/gin"

	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type TagController struct {
	tagService services.TagServiceInterface
}

func NewTagController(tagService services.TagServiceInterface) *TagController {
	return &TagController{
		tagService: tagService,
	}
}

func (tc *TagController) ListAllTagsHandler(c *gin.Context) {
	tags, err := tc.tagService.GetAllTags(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, tags, "Fetched tags successfully")
}

func (tc *TagController) RemoveTagHandler(c *gin.Context) {
	res, err := tc.tagService.RemoveTag(c.Request.Context(), c.GetString("user_id"), c.Param("tag"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Tag removed successfully")
}
