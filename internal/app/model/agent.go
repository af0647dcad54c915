package model

import (
	"time"

	"gorm.io/gorm"
)

type Agent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	AccountID uint           `gorm:"uniqueIndex;not null" json:"accountId"` // login used by the agent console
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex:idx_agents_email,where:deleted_at IS NULL;not null" json:"email"`
	Phone     string         `json:"phone"`
	Region    string         `gorm:"index" json:"region"` // e.g. state or zone the agent covers
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (Agent) TableName() string {
	return "agents"
}
