package models

// User represents the user model in the database
type User struct {
	Base
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Password      string `gorm:"not null" json:"-"`
	PreferredName string `json:"preferred_name,omitempty"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	EmailCode     string `gorm:"size:15" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	PhoneNumber   string `gorm:"size:15" json:"phone_number,omitempty"`
	SMSCode       string `gorm:"size:15" json:"-"`
	SMSVerified   bool   `gorm:"default:false" json:"sms_verified"`

	Accounts    []Account    `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	AssetGroups []AssetGroup `gorm:"foreignKey:UserID" json:"asset_groups,omitempty"`
}
