package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// CryptoHandler handles crypto holding requests.
type CryptoHandler struct {
	cryptoService services.CryptoServicer
	auditService  services.AuditServicer
}

// NewCryptoHandler creates a new CryptoHandler.
func NewCryptoHandler(cryptoService services.CryptoServicer, auditService services.AuditServicer) *CryptoHandler {
	return &CryptoHandler{cryptoService: cryptoService, auditService: auditService}
}

// CreateCrypto handles the creation of a new crypto holding
// @Summary     Create a crypto holding
// @Description Create a new crypto holding. Omitting parent_group_id places it in the ungrouped group.
// @Tags        cryptos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSymbolAssetRequest true "Crypto details"
// @Success     201 {object} models.Crypto "Crypto created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent group or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cryptos [post]
func (h *CryptoHandler) CreateCrypto(c *gin.Context) {
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

	crypto, err := h.cryptoService.CreateCrypto(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CRYPTO", "crypto", crypto.ID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol})

	c.JSON(http.StatusCreated, gin.H{"crypto": crypto})
}

// GetUserCryptos handles the retrieval of the user's crypto holdings
// @Summary     Get crypto holdings
// @Description Get a paginated list of crypto holdings for the authenticated user
// @Tags        cryptos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Crypto] "Paginated cryptos"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cryptos [get]
func (h *CryptoHandler) GetUserCryptos(c *gin.Context) {
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

	result, err := h.cryptoService.GetUserCryptos(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCryptoByID handles the retrieval of a specific crypto holding
// @Summary     Get crypto by ID
// @Description Get a specific crypto holding by ID for the authenticated user
// @Tags        cryptos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto ID"
// @Success     200 {object} models.Crypto "Crypto details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Crypto not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cryptos/{id} [get]
func (h *CryptoHandler) GetCryptoByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	crypto, err := h.cryptoService.GetCryptoByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto": crypto})
}

// UpdateCrypto handles updating a crypto holding
// @Summary     Update crypto
// @Description Update an existing crypto holding for the authenticated user
// @Tags        cryptos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto ID"
// @Param       request body UpdateSymbolAssetRequest true "Updated crypto details"
// @Success     200 {object} models.Crypto "Updated crypto"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Crypto not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cryptos/{id} [put]
func (h *CryptoHandler) UpdateCrypto(c *gin.Context) {
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

	cryptoID := c.Param("id")
	crypto, err := h.cryptoService.UpdateCrypto(userID, cryptoID, req.toUpdate())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CRYPTO", "crypto", cryptoID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"crypto": crypto})
}

// DeleteCrypto handles deleting a crypto holding
// @Summary     Delete crypto
// @Description Delete a crypto holding
// @Tags        cryptos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto ID"
// @Success     204 "Crypto deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Crypto not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cryptos/{id} [delete]
func (h *CryptoHandler) DeleteCrypto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cryptoID := c.Param("id")
	if err := h.cryptoService.DeleteCrypto(userID, cryptoID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CRYPTO", "crypto", cryptoID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
