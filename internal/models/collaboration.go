package models

import (
	"time"

	"gorm.io/datatypes"
)

type Collaboration struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	PageID string `gorm:"type:uuid;uniqueIndex:idx_collab_page_user;not null" json:"page_id"`
	UserID string `gorm:"type:uuid;uniqueIndex:idx_collab_page_user;not null" json:"user_id"`

	Role        string                      `gorm:"size:20;not null" json:"role"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	InvitedBy   string                      `gorm:"type:uuid" json:"invited_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CollaborationInvite struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	PageID  string `gorm:"type:uuid;index;not null" json:"page_id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`

	TargetUserID string `gorm:"type:uuid;index;not null" json:"target_user_id"`
	TargetEmail  string `gorm:"size:100" json:"target_email"`

	Role        string     `gorm:"size:20;not null" json:"role"`
	Status      string     `gorm:"size:20;index;default:'pending'" json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CollaborationInvite) TableName() string {
	return "collaboration_invites"
}
