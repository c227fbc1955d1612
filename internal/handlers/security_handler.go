package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// SecurityHandler handles security holding requests.
type SecurityHandler struct {
	securityService services.SecurityServicer
	auditService    services.AuditServicer
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(securityService services.SecurityServicer, auditService services.AuditServicer) *SecurityHandler {
	return &SecurityHandler{securityService: securityService, auditService: auditService}
}

// CreateSymbolAssetRequest represents the request payload for creating a
// security or crypto holding.
type CreateSymbolAssetRequest struct {
	Name            string              `json:"name" binding:"required,min=1,max=100"`
	Symbol          string              `json:"symbol" binding:"required,min=1,max=10"`
	ParentGroupID   *string             `json:"parent_group_id" binding:"omitempty,uuid"`
	AccountID       *string             `json:"account_id" binding:"omitempty,max=200"`
	SharesQuantity  decimal.NullDecimal `json:"shares_quantity"`
	Equity          decimal.NullDecimal `json:"equity"`
	TargetWeighting decimal.NullDecimal `json:"target_weighting"`
	Color           string              `json:"color" binding:"omitempty,hex_color"`
	Sort            int                 `json:"sort" binding:"gte=0"`
}

// UpdateSymbolAssetRequest represents the request payload for updating a
// security or crypto holding.
type UpdateSymbolAssetRequest struct {
	Name            *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Symbol          *string              `json:"symbol" binding:"omitempty,min=1,max=10"`
	ParentGroupID   *string              `json:"parent_group_id" binding:"omitempty,uuid"`
	AccountID       *string              `json:"account_id" binding:"omitempty,max=200"`
	SharesQuantity  *decimal.NullDecimal `json:"shares_quantity"`
	Equity          *decimal.NullDecimal `json:"equity"`
	TargetWeighting *decimal.NullDecimal `json:"target_weighting"`
	Color           *string              `json:"color" binding:"omitempty,hex_color"`
	Sort            *int                 `json:"sort" binding:"omitempty,gte=0"`
	Ghost           *bool                `json:"ghost"`
}

func (r CreateSymbolAssetRequest) toInput() services.SymbolAssetInput {
	return services.SymbolAssetInput{
		Name:            r.Name,
		Symbol:          r.Symbol,
		ParentGroupID:   r.ParentGroupID,
		AccountID:       r.AccountID,
		SharesQuantity:  r.SharesQuantity,
		Equity:          r.Equity,
		TargetWeighting: r.TargetWeighting,
		Color:           r.Color,
		Sort:            r.Sort,
	}
}

func (r UpdateSymbolAssetRequest) toUpdate() services.SymbolAssetUpdate {
	return services.SymbolAssetUpdate{
		Name:            r.Name,
		Symbol:          r.Symbol,
		ParentGroupID:   r.ParentGroupID,
		AccountID:       r.AccountID,
		SharesQuantity:  r.SharesQuantity,
		Equity:          r.Equity,
		TargetWeighting: r.TargetWeighting,
		Color:           r.Color,
		Sort:            r.Sort,
		Ghost:           r.Ghost,
	}
}

// CreateSecurity handles the creation of a new security holding
// @Summary     Create a security
// @Description Create a new security holding. Omitting parent_group_id places it in the ungrouped group.
// @Tags        securities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSymbolAssetRequest true "Security details"
// @Success     201 {object} models.Security "Security created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent group or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /securities [post]
func (h *SecurityHandler) CreateSecurity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSymbolAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	security, err := h.securityService.CreateSecurity(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SECURITY", "security", security.ID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol})

	c.JSON(http.StatusCreated, gin.H{"security": security})
}

// GetUserSecurities handles the retrieval of the user's securities
// @Summary     Get securities
// @Description Get a paginated list of security holdings for the authenticated user
// @Tags        securities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Security] "Paginated securities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /securities [get]
func (h *SecurityHandler) GetUserSecurities(c *gin.Context) {
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

	result, err := h.securityService.GetUserSecurities(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSecurityByID handles the retrieval of a specific security
// @Summary     Get security by ID
// @Description Get a specific security holding by ID for the authenticated user
// @Tags        securities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Security ID"
// @Success     200 {object} models.Security "Security details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /securities/{id} [get]
func (h *SecurityHandler) GetSecurityByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	security, err := h.securityService.GetSecurityByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"security": security})
}

// UpdateSecurity handles updating a security
// @Summary     Update security
// @Description Update an existing security holding for the authenticated user
// @Tags        securities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Security ID"
// @Param       request body UpdateSymbolAssetRequest true "Updated security details"
// @Success     200 {object} models.Security "Updated security"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /securities/{id} [put]
func (h *SecurityHandler) UpdateSecurity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSymbolAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	securityID := c.Param("id")
	security, err := h.securityService.UpdateSecurity(userID, securityID, req.toUpdate())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SECURITY", "security", securityID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"security": security})
}

// DeleteSecurity handles deleting a security
// @Summary     Delete security
// @Description Delete a security holding and its transactions
// @Tags        securities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Security ID"
// @Success     204 "Security deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /securities/{id} [delete]
func (h *SecurityHandler) DeleteSecurity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	securityID := c.Param("id")
	if err := h.securityService.DeleteSecurity(userID, securityID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SECURITY", "security", securityID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
