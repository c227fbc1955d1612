package models

// PlaidItem stores the credentials for one linked Plaid item. A user
// can link several institutions, each with its own access token.
type PlaidItem struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	AccessToken string `gorm:"size:200" json:"-"`
	ItemID      string `gorm:"size:200;uniqueIndex" json:"item_id"`
}

// SnapTradeLink stores a user's SnapTrade registration secret.
// SnapTrade allows one registration per user.
type SnapTradeLink struct {
	Base
	UserID     string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	UserSecret string `gorm:"size:200" json:"-"`
}
