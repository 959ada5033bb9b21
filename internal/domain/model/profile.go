package model

import "time"

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeSeller   UserType = "seller"
)

// 1:1 with User. Created explicitly by the registration workflow,
// never by an implicit persistence hook.
type Profile struct {
	ID          int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64    `gorm:"not null;uniqueIndex" json:"user_id"`
	UserType    UserType `gorm:"type:varchar(10);not null;default:'customer'" json:"user_type"`
	CompanyName string   `gorm:"type:varchar(200)" json:"company_name"`
	Mobile      string   `gorm:"type:varchar(15)" json:"mobile"`
	Address     string   `gorm:"type:text" json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
