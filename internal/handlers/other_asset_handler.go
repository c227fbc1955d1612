package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// OtherAssetHandler handles requests for assets without a market symbol.
type OtherAssetHandler struct {
	otherAssetService services.OtherAssetServicer
	auditService      services.AuditServicer
}

// NewOtherAssetHandler creates a new OtherAssetHandler.
func NewOtherAssetHandler(otherAssetService services.OtherAssetServicer, auditService services.AuditServicer) *OtherAssetHandler {
	return &OtherAssetHandler{otherAssetService: otherAssetService, auditService: auditService}
}

// CreateOtherAssetRequest represents the request payload for creating an other asset.
type CreateOtherAssetRequest struct {
	Name            string              `json:"name" binding:"required,min=1,max=100"`
	ParentGroupID   *string             `json:"parent_group_id" binding:"omitempty,uuid"`
	MonthlyIncome   decimal.NullDecimal `json:"monthly_income"`
	Value           decimal.NullDecimal `json:"value"`
	TargetWeighting decimal.NullDecimal `json:"target_weighting"`
	Color           string              `json:"color" binding:"omitempty,hex_color"`
	Sort            int                 `json:"sort" binding:"gte=0"`
}

// UpdateOtherAssetRequest represents the request payload for updating an other asset.
type UpdateOtherAssetRequest struct {
	Name            *string              `json:"name" binding:"omitempty,min=1,max=100"`
	ParentGroupID   *string              `json:"parent_group_id" binding:"omitempty,uuid"`
	MonthlyIncome   *decimal.NullDecimal `json:"monthly_income"`
	Value           *decimal.NullDecimal `json:"value"`
	TargetWeighting *decimal.NullDecimal `json:"target_weighting"`
	Color           *string              `json:"color" binding:"omitempty,hex_color"`
	Sort            *int                 `json:"sort" binding:"omitempty,gte=0"`
}

// CreateOtherAsset handles the creation of a new other asset
// @Summary     Create an other asset
// @Description Create a new asset without a market symbol, such as real estate. Omitting parent_group_id places it in the ungrouped group.
// @Tags        other-assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateOtherAssetRequest true "Asset details"
// @Success     201 {object} models.OtherAsset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /other-assets [post]
func (h *OtherAssetHandler) CreateOtherAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateOtherAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.otherAssetService.CreateOtherAsset(userID, services.OtherAssetInput{
		Name:            req.Name,
		ParentGroupID:   req.ParentGroupID,
		MonthlyIncome:   req.MonthlyIncome,
		Value:           req.Value,
		TargetWeighting: req.TargetWeighting,
		Color:           req.Color,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_OTHER_ASSET", "other_asset", asset.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"other_asset": asset})
}

// GetUserOtherAssets handles the retrieval of the user's other assets
// @Summary     Get other assets
// @Description Get a paginated list of other assets for the authenticated user
// @Tags        other-assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.OtherAsset] "Paginated assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /other-assets [get]
func (h *OtherAssetHandler) GetUserOtherAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.otherAssetService.GetUserOtherAssets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOtherAssetByID handles the retrieval of a specific other asset
// @Summary     Get other asset by ID
// @Description Get a specific other asset by ID for the authenticated user
// @Tags        other-assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.OtherAsset "Asset details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /other-assets/{id} [get]
func (h *OtherAssetHandler) GetOtherAssetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.otherAssetService.GetOtherAssetByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"other_asset": asset})
}

// UpdateOtherAsset handles updating an other asset
// @Summary     Update other asset
// @Description Update an existing other asset for the authenticated user
// @Tags        other-assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Param       request body UpdateOtherAssetRequest true "Updated asset details"
// @Success     200 {object} models.OtherAsset "Updated asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /other-assets/{id} [put]
func (h *OtherAssetHandler) UpdateOtherAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateOtherAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assetID := c.Param("id")
	asset, err := h.otherAssetService.UpdateOtherAsset(userID, assetID, services.OtherAssetUpdate{
		Name:            req.Name,
		ParentGroupID:   req.ParentGroupID,
		MonthlyIncome:   req.MonthlyIncome,
		Value:           req.Value,
		TargetWeighting: req.TargetWeighting,
		Color:           req.Color,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_OTHER_ASSET", "other_asset", assetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"other_asset": asset})
}

// DeleteOtherAsset handles deleting an other asset
// @Summary     Delete other asset
// @Description Delete an other asset and its transactions
// @Tags        other-assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /other-assets/{id} [delete]
func (h *OtherAssetHandler) DeleteOtherAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID := c.Param("id")
	if err := h.otherAssetService.DeleteOtherAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_OTHER_ASSET", "other_asset", assetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
