package domain

import (
	"time"

	"gorm.io/gorm"
)

const RoleAdmin = "ADMIN"

type AdminUser struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"column:username;unique;not null" json:"username"`
	Password    string         `gorm:"column:password;not null" json:"-"`
	Role        string         `gorm:"column:role;default:ADMIN" json:"role"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
