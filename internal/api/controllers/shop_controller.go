package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cozyminds/internal/models/request_models"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

type ShopController struct {
	shopService services.ShopServiceInterface
}

func NewShopController(shopService services.ShopServiceInterface) *ShopController {
	return &ShopController{
		shopService: shopService,
	}
}

// ListItems godoc
// @Summary Shop catalog
// @Description All purchasable items, flagged with whether the caller owns them
// @Tags Shop
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /shop/items [get]
func (s *ShopController) ListItems(c *gin.Context) {
	items, err := s.shopService.ListItems(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Shop items fetched successfully")
}

// Purchase godoc
// @Summary Buy an item
// @Tags Shop
// @Accept json
// @Produce json
// @Param request body request_models.PurchaseRequest true "Item to buy"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /shop/purchase [post]
func (s *ShopController) Purchase(c *gin.Context) {
	var req request_models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := s.shopService.Purchase(c.Request.Context(), c.GetString("user_id"), req.ItemID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Purchase successful")
}

func (s *ShopController) Inventory(c *gin.Context) {
	inv, err := s.shopService.Inventory(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, inv, "Inventory fetched successfully")
}
