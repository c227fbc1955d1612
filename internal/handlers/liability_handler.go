package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// LiabilityHandler handles liability requests.
type LiabilityHandler struct {
	liabilityService services.LiabilityServicer
	auditService     services.AuditServicer
}

// NewLiabilityHandler creates a new LiabilityHandler.
func NewLiabilityHandler(liabilityService services.LiabilityServicer, auditService services.AuditServicer) *LiabilityHandler {
	return &LiabilityHandler{liabilityService: liabilityService, auditService: auditService}
}

// CreateLiabilityRequest represents the request payload for creating a liability.
type CreateLiabilityRequest struct {
	Name            string              `json:"name" binding:"required,min=1,max=100"`
	ParentGroupID   *string             `json:"parent_group_id" binding:"omitempty,uuid"`
	MonthlyExpense  decimal.NullDecimal `json:"monthly_expense"`
	Balance         decimal.NullDecimal `json:"balance"`
	TargetWeighting decimal.NullDecimal `json:"target_weighting"`
	Color           string              `json:"color" binding:"omitempty,hex_color"`
	Sort            int                 `json:"sort" binding:"gte=0"`
}

// UpdateLiabilityRequest represents the request payload for updating a liability.
type UpdateLiabilityRequest struct {
	Name            *string              `json:"name" binding:"omitempty,min=1,max=100"`
	ParentGroupID   *string              `json:"parent_group_id" binding:"omitempty,uuid"`
	MonthlyExpense  *decimal.NullDecimal `json:"monthly_expense"`
	Balance         *decimal.NullDecimal `json:"balance"`
	TargetWeighting *decimal.NullDecimal `json:"target_weighting"`
	Color           *string              `json:"color" binding:"omitempty,hex_color"`
	Sort            *int                 `json:"sort" binding:"omitempty,gte=0"`
}

// CreateLiability handles the creation of a new liability
// @Summary     Create a liability
// @Description Create a new liability. Omitting parent_group_id places it in the ungrouped group.
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLiabilityRequest true "Liability details"
// @Success     201 {object} models.Liability "Liability created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities [post]
func (h *LiabilityHandler) CreateLiability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	liability, err := h.liabilityService.CreateLiability(userID, services.LiabilityInput{
		Name:            req.Name,
		ParentGroupID:   req.ParentGroupID,
		MonthlyExpense:  req.MonthlyExpense,
		Balance:         req.Balance,
		TargetWeighting: req.TargetWeighting,
		Color:           req.Color,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_LIABILITY", "liability", liability.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"liability": liability})
}

// GetUserLiabilities handles the retrieval of the user's liabilities
// @Summary     Get liabilities
// @Description Get a paginated list of liabilities for the authenticated user
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Liability] "Paginated liabilities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities [get]
func (h *LiabilityHandler) GetUserLiabilities(c *gin.Context) {
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

	result, err := h.liabilityService.GetUserLiabilities(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLiabilityByID handles the retrieval of a specific liability
// @Summary     Get liability by ID
// @Description Get a specific liability by ID for the authenticated user
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Liability ID"
// @Success     200 {object} models.Liability "Liability details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Liability not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities/{id} [get]
func (h *LiabilityHandler) GetLiabilityByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	liability, err := h.liabilityService.GetLiabilityByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liability": liability})
}

// UpdateLiability handles updating a liability
// @Summary     Update liability
// @Description Update an existing liability for the authenticated user
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Liability ID"
// @Param       request body UpdateLiabilityRequest true "Updated liability details"
// @Success     200 {object} models.Liability "Updated liability"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Liability not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities/{id} [put]
func (h *LiabilityHandler) UpdateLiability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	liabilityID := c.Param("id")
	liability, err := h.liabilityService.UpdateLiability(userID, liabilityID, services.LiabilityUpdate{
		Name:            req.Name,
		ParentGroupID:   req.ParentGroupID,
		MonthlyExpense:  req.MonthlyExpense,
		Balance:         req.Balance,
		TargetWeighting: req.TargetWeighting,
		Color:           req.Color,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_LIABILITY", "liability", liabilityID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"liability": liability})
}

// DeleteLiability handles deleting a liability
// @Summary     Delete liability
// @Description Delete a liability and its transactions
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Liability ID"
// @Success     204 "Liability deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Liability not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities/{id} [delete]
func (h *LiabilityHandler) DeleteLiability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	liabilityID := c.Param("id")
	if err := h.liabilityService.DeleteLiability(userID, liabilityID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LIABILITY", "liability", liabilityID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
