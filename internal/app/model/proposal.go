package model

import (
	"time"
)

type ProposalStatus string

const (
	ProposalOpen      ProposalStatus = "open"
	ProposalSubmitted ProposalStatus = "submitted"
	ProposalExpired   ProposalStatus = "expired"
)

// Proposal is an invite an agent sends to a prospective franchisee. The
// applicant opens the form through the invite link, which pre-fills the
// contact fields below.
type Proposal struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AgentID          uint           `gorm:"index;not null" json:"agentId"`
	FullName         string         `gorm:"not null" json:"fullName"`
	Email            string         `gorm:"index;not null" json:"email"`
	MobileNumber     string         `json:"mobileNumber"`
	FranchisePinCode string         `json:"franchisePinCode"`
	Location         string         `json:"location"`
	Token            string         `gorm:"uniqueIndex;not null" json:"token"`
	Status           ProposalStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`
	ExpiresAt        time.Time      `gorm:"index" json:"expiresAt"`
	ApplicationID    *uint          `json:"applicationId,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (Proposal) TableName() string {
	return "proposals"
}

// Usable reports whether the invite can still be used to apply at now.
func (p *Proposal) Usable(now time.Time) bool {
	return p.Status == ProposalOpen && now.Before(p.ExpiresAt)
}
