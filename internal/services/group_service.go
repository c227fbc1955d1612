package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
)

// GroupConfig names the two default asset groups every user owns. It is
// passed in at construction so tests can run isolated configurations.
type GroupConfig struct {
	PortfolioName        string
	PortfolioDescription string
	UngroupedName        string
	UngroupedDescription string
}

// DefaultGroupConfig returns the production default-group configuration.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		PortfolioName:        "My Portfolio",
		PortfolioDescription: "Top level overview of your net worth",
		UngroupedName:        "Ungrouped",
		UngroupedDescription: "Ungrouped assets and liabilities are kept here",
	}
}

// IsProtected reports whether name belongs to a default group.
func (c GroupConfig) IsProtected(name string) bool {
	return name == c.PortfolioName || name == c.UngroupedName
}

// groupService maintains the per-user asset-group tree.
type groupService struct {
	db  *gorm.DB
	cfg GroupConfig
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB, cfg GroupConfig) GroupServicer {
	return &groupService{db: db, cfg: cfg}
}

// EnsureDefaultGroups guarantees the user's "My Portfolio" root and its
// "Ungrouped" child exist, creating whichever is missing. Safe to call
// concurrently for the same user: creation is an insert guarded by the
// (user_id, name) unique index, so racing callers converge on one row.
func (s *groupService) EnsureDefaultGroups(userID string) (*models.AssetGroup, *models.AssetGroup, error) {
	portfolio, err := s.ensureGroup(models.AssetGroup{
		UserID:      userID,
		Name:        s.cfg.PortfolioName,
		Description: s.cfg.PortfolioDescription,
		Sort:        0,
	})
	if err != nil {
		return nil, nil, err
	}

	ungrouped, err := s.ensureGroup(models.AssetGroup{
		UserID:      userID,
		ParentID:    &portfolio.ID,
		Name:        s.cfg.UngroupedName,
		Description: s.cfg.UngroupedDescription,
		Sort:        1,
	})
	if err != nil {
		return nil, nil, err
	}

	return portfolio, ungrouped, nil
}

// ensureGroup returns the group matching (user, name), inserting want
// if no such group exists yet. The insert uses ON CONFLICT DO NOTHING
// against the unique index rather than a read-then-write, so a
// concurrent ensure for the same user cannot produce duplicates; the
// re-fetch afterwards returns whichever insert won.
func (s *groupService) ensureGroup(want models.AssetGroup) (*models.AssetGroup, error) {
	var group models.AssetGroup
	err := s.db.Where("user_id = ? AND name = ?", want.UserID, want.Name).First(&group).Error
	if err == nil {
		return &group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&want).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Where("user_id = ? AND name = ?", want.UserID, want.Name).First(&group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// CreateGroup creates a new asset group for the user.
func (s *groupService) CreateGroup(userID string, in GroupInput) (*models.AssetGroup, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}

	var count int64
	if err := s.db.Model(&models.AssetGroup{}).
		Where("user_id = ? AND name = ?", userID, in.Name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateGroupName
	}

	if in.ParentID != nil {
		if _, err := s.GetGroupByID(userID, *in.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrGroupNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrGroupNotFound, "parent group not found")
			}
			return nil, err
		}
	}

	group := &models.AssetGroup{
		UserID:          userID,
		ParentID:        in.ParentID,
		Name:            in.Name,
		Color:           in.Color,
		TargetWeighting: in.TargetWeighting,
		Description:     in.Description,
		Sort:            in.Sort,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// GetUserGroups retrieves a paginated list of the user's asset groups,
// ordered by sort position.
func (s *groupService) GetUserGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AssetGroup], error) {
	page.Defaults()

	base := s.db.Model(&models.AssetGroup{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.AssetGroup
	if err := base.Order("sort").Scopes(pagination.Paginate(page)).Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(groups, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGroupByID retrieves a group by ID for a specific user. A group
// owned by someone else is indistinguishable from a missing one.
func (s *groupService) GetGroupByID(userID, groupID string) (*models.AssetGroup, error) {
	var group models.AssetGroup
	if err := s.db.Where("id = ? AND user_id = ?", groupID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// UpdateGroup updates a non-default group. Updates touching a default
// group fail with GROUP_PROTECTED regardless of which field changes.
func (s *groupService) UpdateGroup(userID, groupID string, upd GroupUpdate) (*models.AssetGroup, error) {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	if s.cfg.IsProtected(group.Name) {
		return nil, apperrors.ErrGroupProtected
	}

	updates := make(map[string]interface{})

	if upd.Name != nil && *upd.Name != group.Name {
		if *upd.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
		}
		var count int64
		if err := s.db.Model(&models.AssetGroup{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, *upd.Name, groupID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateGroupName
		}
		updates["name"] = *upd.Name
	}

	if upd.ParentID != nil {
		if *upd.ParentID == "" {
			// An empty id re-roots the group.
			updates["parent_id"] = nil
		} else {
			if err := s.checkReparent(userID, groupID, *upd.ParentID); err != nil {
				return nil, err
			}
			updates["parent_id"] = *upd.ParentID
		}
	}

	if upd.Color != nil {
		updates["color"] = *upd.Color
	}
	if upd.TargetWeighting != nil {
		updates["target_weighting"] = *upd.TargetWeighting
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Sort != nil {
		updates["sort"] = *upd.Sort
	}

	if len(updates) > 0 {
		if err := s.db.Model(group).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return group, nil
}

// checkReparent validates that moving groupID under parentID neither
// points at a foreign group nor creates a cycle. The parent chain is
// walked to the root; hitting groupID on the way means parentID is a
// descendant of the group being moved.
func (s *groupService) checkReparent(userID, groupID, parentID string) error {
	if parentID == groupID {
		return apperrors.ErrGroupCycle
	}

	current := parentID
	for current != "" {
		node, err := s.GetGroupByID(userID, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrGroupNotFound) && current == parentID {
				return apperrors.WithMessage(apperrors.ErrGroupNotFound, "parent group not found")
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == groupID {
			return apperrors.ErrGroupCycle
		}
		current = *node.ParentID
	}
	return nil
}

// DeleteGroup deletes a non-default group together with its sub-group
// subtree, the assets and liabilities parented anywhere inside it, and
// their transactions. Everything goes in one database transaction.
func (s *groupService) DeleteGroup(userID, groupID string) error {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return err
	}

	if s.cfg.IsProtected(group.Name) {
		return apperrors.ErrGroupProtected
	}

	subtree, err := s.collectSubtree(userID, groupID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var securityIDs, otherAssetIDs, liabilityIDs []string

		if err := tx.Model(&models.Security{}).Where("parent_group_id IN ?", subtree).
			Pluck("id", &securityIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OtherAsset{}).Where("parent_group_id IN ?", subtree).
			Pluck("id", &otherAssetIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Liability{}).Where("parent_group_id IN ?", subtree).
			Pluck("id", &liabilityIDs).Error; err != nil {
			return err
		}

		if len(securityIDs) > 0 {
			if err := tx.Where("security_id IN ?", securityIDs).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", securityIDs).Delete(&models.Security{}).Error; err != nil {
				return err
			}
		}
		if len(otherAssetIDs) > 0 {
			if err := tx.Where("other_asset_id IN ?", otherAssetIDs).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", otherAssetIDs).Delete(&models.OtherAsset{}).Error; err != nil {
				return err
			}
		}
		if len(liabilityIDs) > 0 {
			if err := tx.Where("liability_id IN ?", liabilityIDs).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", liabilityIDs).Delete(&models.Liability{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("parent_group_id IN ?", subtree).Delete(&models.Crypto{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", subtree).Delete(&models.AssetGroup{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// collectSubtree returns groupID plus the ids of every group below it,
// breadth-first.
func (s *groupService) collectSubtree(userID, groupID string) ([]string, error) {
	subtree := []string{groupID}
	frontier := []string{groupID}

	for len(frontier) > 0 {
		var children []string
		if err := s.db.Model(&models.AssetGroup{}).
			Where("user_id = ? AND parent_id IN ?", userID, frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		subtree = append(subtree, children...)
		frontier = children
	}

	return subtree, nil
}
