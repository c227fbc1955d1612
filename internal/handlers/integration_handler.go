package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/services"
)

// IntegrationHandler handles provider linking and sync requests.
type IntegrationHandler struct {
	integrationService services.IntegrationServicer
	auditService       services.AuditServicer
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(integrationService services.IntegrationServicer, auditService services.AuditServicer) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService, auditService: auditService}
}

// ConnectPlaidRequest represents the request payload for completing a
// Plaid Link flow.
type ConnectPlaidRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
}

// CreatePlaidLinkToken starts a Plaid Link flow
// @Summary     Create Plaid link token
// @Description Create a Link token to start the Plaid connection flow in the client
// @Tags        integrations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Link token"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Router      /integrations/plaid/link-token [post]
func (h *IntegrationHandler) CreatePlaidLinkToken(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	linkToken, err := h.integrationService.CreatePlaidLinkToken(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"link_token": linkToken})
}

// ConnectPlaid completes a Plaid Link flow
// @Summary     Connect Plaid
// @Description Exchange a Link public token and store the linked item
// @Tags        integrations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ConnectPlaidRequest true "Public token from Plaid Link"
// @Success     201 {object} map[string]string "Item linked"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Router      /integrations/plaid/connect [post]
func (h *IntegrationHandler) ConnectPlaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ConnectPlaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.integrationService.ConnectPlaid(c.Request.Context(), userID, req.PublicToken); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONNECT_PLAID", "plaid_item", "", c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"status": "linked"})
}

// SyncPlaid imports holdings from every linked Plaid item
// @Summary     Sync Plaid
// @Description Pull accounts, holdings, and activities from all linked Plaid items
// @Tags        integrations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ImportSummary "Import summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "No linked Plaid items"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Router      /integrations/plaid/sync [post]
func (h *IntegrationHandler) SyncPlaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.integrationService.SyncPlaid(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SYNC_PLAID", "plaid_item", "", c.ClientIP(),
		map[string]interface{}{"accounts": summary.Accounts, "securities": summary.Securities, "activities": summary.Activities})

	c.JSON(http.StatusOK, summary)
}

// ConnectSnapTrade starts a SnapTrade connection flow
// @Summary     Connect SnapTrade
// @Description Register the user with SnapTrade if needed and return the connection portal URL
// @Tags        integrations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Redirect URI"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Router      /integrations/snaptrade/connect [post]
func (h *IntegrationHandler) ConnectSnapTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	redirectURI, err := h.integrationService.ConnectSnapTrade(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONNECT_SNAPTRADE", "snaptrade_link", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"redirect_uri": redirectURI})
}

// SyncSnapTrade imports holdings from SnapTrade
// @Summary     Sync SnapTrade
// @Description Pull accounts, positions, and activities from the user's SnapTrade connection
// @Tags        integrations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ImportSummary "Import summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "SnapTrade not linked"
// @Failure     502 {object} ErrorResponse "Provider error"
// @Router      /integrations/snaptrade/sync [post]
func (h *IntegrationHandler) SyncSnapTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.integrationService.SyncSnapTrade(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SYNC_SNAPTRADE", "snaptrade_link", "", c.ClientIP(),
		map[string]interface{}{"accounts": summary.Accounts, "securities": summary.Securities, "activities": summary.Activities})

	c.JSON(http.StatusOK, summary)
}
