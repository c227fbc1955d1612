package models

import "github.com/shopspring/decimal"

// AssetGroup is a node in a user's portfolio tree. Groups nest through
// ParentID; every user owns exactly one "My Portfolio" root and one
// "Ungrouped" child of it, both provisioned at registration and
// protected from rename and deletion.
type AssetGroup struct {
	Base
	UserID          string              `gorm:"type:uuid;not null;uniqueIndex:uq_asset_groups_user_name" json:"user_id"`
	ParentID        *string             `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name            string              `gorm:"not null;uniqueIndex:uq_asset_groups_user_name" json:"name"`
	Color           string              `gorm:"size:7" json:"color,omitempty"`
	TargetWeighting decimal.NullDecimal `gorm:"type:decimal(5,4)" json:"target_weighting"`
	Description     string              `json:"description,omitempty"`
	Sort            int                 `gorm:"default:0;index" json:"sort"`

	Parent    *AssetGroup  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	SubGroups []AssetGroup `gorm:"foreignKey:ParentID" json:"sub_groups,omitempty"`
}
