package models

// UnsubscribeTokenKey is the profile attribute key holding a user's unsubscribe token.
const UnsubscribeTokenKey = "newsletter_unsubscribe_token"

// ProfileAttribute is one row of the host's per-user key/value profile table.
type ProfileAttribute struct {
	UserID   int64  `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Key      string `gorm:"column:profile_key;primaryKey;size:100"`
	Value    string `gorm:"column:profile_value;type:text"`
	Ordering int    `gorm:"column:ordering;default:0"`
}

// TableName maps to the host table.
func (ProfileAttribute) TableName() string {
	return "user_profiles"
}
