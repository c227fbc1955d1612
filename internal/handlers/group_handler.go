package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// GroupHandler handles asset-group requests.
type GroupHandler struct {
	groupService services.GroupServicer
	auditService services.AuditServicer
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService services.GroupServicer, auditService services.AuditServicer) *GroupHandler {
	return &GroupHandler{groupService: groupService, auditService: auditService}
}

// CreateGroupRequest represents the request payload for creating an asset group.
type CreateGroupRequest struct {
	Name            string              `json:"name" binding:"required,min=1,max=100"`
	ParentID        *string             `json:"parent_id" binding:"omitempty,uuid"`
	Color           string              `json:"color" binding:"omitempty,hex_color"`
	TargetWeighting decimal.NullDecimal `json:"target_weighting"`
	Description     string              `json:"description" binding:"max=500"`
	Sort            int                 `json:"sort" binding:"gte=0"`
}

// UpdateGroupRequest represents the request payload for updating an asset group.
type UpdateGroupRequest struct {
	Name            *string              `json:"name" binding:"omitempty,min=1,max=100"`
	ParentID        *string              `json:"parent_id" binding:"omitempty,uuid"`
	Color           *string              `json:"color" binding:"omitempty,hex_color"`
	TargetWeighting *decimal.NullDecimal `json:"target_weighting"`
	Description     *string              `json:"description" binding:"omitempty,max=500"`
	Sort            *int                 `json:"sort" binding:"omitempty,gte=0"`
}

// CreateGroup handles the creation of a new asset group
// @Summary     Create an asset group
// @Description Create a new asset group for the authenticated user. Omitting parent_id places the group under the top-level portfolio group.
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGroupRequest true "Asset group details"
// @Success     201 {object} models.AssetGroup "Group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate group name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.CreateGroup(userID, services.GroupInput{
		Name:            req.Name,
		ParentID:        req.ParentID,
		Color:           req.Color,
		TargetWeighting: req.TargetWeighting,
		Description:     req.Description,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GROUP", "asset_group", group.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// GetUserGroups handles the retrieval of the user's asset groups
// @Summary     Get asset groups
// @Description Get a paginated list of asset groups for the authenticated user, ordered by sort
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AssetGroup] "Paginated groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups [get]
func (h *GroupHandler) GetUserGroups(c *gin.Context) {
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

	result, err := h.groupService.GetUserGroups(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGroupByID handles the retrieval of a specific asset group
// @Summary     Get asset group by ID
// @Description Get a specific asset group by ID for the authenticated user
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Group ID"
// @Success     200 {object} models.AssetGroup "Group details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [get]
func (h *GroupHandler) GetGroupByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.groupService.GetGroupByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// UpdateGroup handles updating an asset group
// @Summary     Update asset group
// @Description Update an existing asset group. An empty parent_id re-roots the group; the default portfolio and ungrouped groups cannot be modified.
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Group ID"
// @Param       request body UpdateGroupRequest true "Updated group details"
// @Success     200 {object} models.AssetGroup "Updated group"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Group is protected"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     409 {object} ErrorResponse "Duplicate name or reparent cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	groupID := c.Param("id")
	group, err := h.groupService.UpdateGroup(userID, groupID, services.GroupUpdate{
		Name:            req.Name,
		ParentID:        req.ParentID,
		Color:           req.Color,
		TargetWeighting: req.TargetWeighting,
		Description:     req.Description,
		Sort:            req.Sort,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GROUP", "asset_group", groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// DeleteGroup handles deleting an asset group
// @Summary     Delete asset group
// @Description Delete an asset group and everything beneath it: subgroups, their assets and liabilities, and their transactions. The default groups cannot be deleted.
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Group ID"
// @Success     204 "Group deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Group is protected"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID := c.Param("id")
	if err := h.groupService.DeleteGroup(userID, groupID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GROUP", "asset_group", groupID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
