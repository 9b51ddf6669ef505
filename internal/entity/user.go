package entity

import "time"

// User represents a registered account.
//
// EmailConfirmedOn is set if and only if EmailConfirmed is true; both are
// mutated exclusively by the account service's confirmation transition.
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `json:"name"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHashed string `gorm:"size:128;not null" json:"-"`

	RegisteredOn            time.Time  `json:"registered_on"`
	EmailConfirmationSentOn *time.Time `json:"email_confirmation_sent_on"`
	EmailConfirmed          bool       `gorm:"default:false" json:"email_confirmed"`
	EmailConfirmedOn        *time.Time `json:"email_confirmed_on"`

	Stocks []StockPosition `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
