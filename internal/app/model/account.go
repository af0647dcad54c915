package model

import (
	"time"

	"gorm.io/gorm"
)

type AccountRole string

const (
	RoleAdmin AccountRole = "admin" // portal operators
	RoleAgent AccountRole = "agent" // field agents who invite applicants
)

// Account is a console login. Applicants never get one.
type Account struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex:idx_accounts_email,where:deleted_at IS NULL;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         AccountRole    `gorm:"type:varchar(20);not null;index" json:"role"`
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}
